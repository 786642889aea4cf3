package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codescope/internal/library"
)

var (
	libPathFlag        string
	exampleFileFlag    string
	classificationFlag string
	patternFlag        string
	languageFlag       string
	reasonFlag         string
	alternativeFlag    string
	tagsFlag           []string
)

// libraryCmd groups code example library management.
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the code example library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List examples in a library",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(libPathFlag)
		if err != nil {
			return err
		}
		for _, ex := range lib.Examples {
			fmt.Printf("%-32s %-10s %-16s %s\n", ex.ID, ex.Classification, ex.PatternType, ex.Description)
		}
		fmt.Printf("\n%d examples\n", len(lib.Examples))
		return nil
	},
}

var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a classified example to a library file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if libPathFlag == "" {
			return fmt.Errorf("--path is required for add")
		}
		code, err := os.ReadFile(exampleFileFlag)
		if err != nil {
			return fmt.Errorf("read example code: %w", err)
		}

		quality := library.Quality(classificationFlag)
		if !quality.Valid() {
			return fmt.Errorf("invalid classification %q (want excellent, good, smelly or bad)", classificationFlag)
		}

		lib := &library.Library{}
		if _, err := os.Stat(libPathFlag); err == nil {
			lib, err = library.Load(libPathFlag)
			if err != nil {
				return err
			}
		}

		lib.AddExample(library.CodeExample{
			Classification: quality,
			PatternType:    library.PatternType(patternFlag),
			Language:       languageFlag,
			Code:           string(code),
			Reason:         reasonFlag,
			Alternative:    alternativeFlag,
			Tags:           tagsFlag,
		})
		if err := lib.Save(libPathFlag); err != nil {
			return err
		}
		fmt.Printf("Added example to %s (%d total)\n", libPathFlag, len(lib.Examples))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)

	libraryCmd.PersistentFlags().StringVar(&libPathFlag, "path", "", "library YAML file (empty lists the built-in defaults)")
	libraryAddCmd.Flags().StringVar(&exampleFileFlag, "file", "", "file containing the example code")
	libraryAddCmd.Flags().StringVar(&classificationFlag, "classification", "good", "quality label: excellent, good, smelly, bad")
	libraryAddCmd.Flags().StringVar(&patternFlag, "pattern", "general", "pattern type tag")
	libraryAddCmd.Flags().StringVar(&languageFlag, "language", "python", "source language of the example")
	libraryAddCmd.Flags().StringVar(&reasonFlag, "reason", "", "why the example earns its classification")
	libraryAddCmd.Flags().StringVar(&alternativeFlag, "alternative", "", "suggested better alternative")
	libraryAddCmd.Flags().StringSliceVar(&tagsFlag, "tags", nil, "free-form tags")
	_ = libraryAddCmd.MarkFlagRequired("file")
}
