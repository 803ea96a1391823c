// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrition-engine/internal/recipe"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Compute recipe nutrients and manage the recipe book",
	Long: `Recipe computes nutrient totals for recipe files and manages recipes
saved in the local SQLite recipe book.

A recipe file is YAML:

  name: Pannkakor
  ingredients:
    - food: vetemjöl        # best search hit
      amount: 2
      unit: cup
      density: 0.53         # g/ml, volume units only
    - barcode: "7310865004703"
      amount: 0.5
      unit: l`,
}

// --- compute subcommand ---

var recipeComputeCmd = &cobra.Command{
	Use:   "compute <file.yaml>",
	Short: "Resolve a recipe file and print its nutrients",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipeCompute,
}

func runRecipeCompute(cmd *cobra.Command, args []string) error {
	r, err := resolveRecipeFile(cmd, args[0])
	if err != nil {
		return err
	}
	return printRecipe(cmd, r)
}

// --- save subcommand ---

var recipeSaveCmd = &cobra.Command{
	Use:   "save <file.yaml>",
	Short: "Resolve a recipe file and save it to the recipe book",
	Long: `Save resolves every ingredient of a recipe file and stores the recipe
with the resolved foods in the recipe book. A recipe with the same name is
replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecipeSave,
}

func runRecipeSave(cmd *cobra.Command, args []string) error {
	r, err := resolveRecipeFile(cmd, args[0])
	if err != nil {
		return err
	}

	book, err := openBook()
	if err != nil {
		return err
	}
	defer book.Close()

	id, err := book.Save(cmd.Context(), r)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (%s, %d ingredients, %.1f kcal)\n", r.Name, id, r.Len(), r.TotalEnergy())
	return nil
}

// --- list subcommand ---

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recipes",
	Args:  cobra.NoArgs,
	RunE:  runRecipeList,
}

func runRecipeList(cmd *cobra.Command, args []string) error {
	book, err := openBook()
	if err != nil {
		return err
	}
	defer book.Close()

	entries, err := book.List(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No recipes saved.")
		return nil
	}
	fmt.Printf("%-30s  %11s  %10s  %s\n", "Name", "Ingredients", "kcal", "Updated")
	fmt.Println(strings.Repeat("-", 75))
	for _, e := range entries {
		fmt.Printf("%-30s  %11d  %10.1f  %s\n", e.Name, e.Ingredients, e.EnergyKcal, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d recipes\n", len(entries))
	return nil
}

// --- show subcommand ---

var recipeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved recipe with its nutrients",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecipeShow,
}

func runRecipeShow(cmd *cobra.Command, args []string) error {
	book, err := openBook()
	if err != nil {
		return err
	}
	defer book.Close()

	r, err := book.Load(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := recipe.WriteFile(out, recipe.ToFile(r)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}
	return printRecipe(cmd, r)
}

// --- delete subcommand ---

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved recipe",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecipeDelete,
}

func runRecipeDelete(cmd *cobra.Command, args []string) error {
	book, err := openBook()
	if err != nil {
		return err
	}
	defer book.Close()

	name := strings.Join(args, " ")
	existed, err := book.Delete(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("no recipe named %q", name)
	}
	fmt.Printf("deleted %s\n", name)
	return nil
}

// --- export subcommand ---

var recipeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the recipe book to YAML or JSON",
	Long: `Export writes every saved recipe with computed nutrients to
<recipe_book.export_dir>/export.yaml or export.json.`,
	Args: cobra.NoArgs,
	RunE: runRecipeExport,
}

func runRecipeExport(cmd *cobra.Command, args []string) error {
	book, err := openBook()
	if err != nil {
		return err
	}
	defer book.Close()

	format, _ := cmd.Flags().GetString("format")
	var path string
	switch format {
	case "yaml":
		path, err = book.ExportYAML(cmd.Context())
	case "json":
		path, err = book.ExportJSON(cmd.Context())
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- helpers ---

func resolveRecipeFile(cmd *cobra.Command, path string) (*recipe.Recipe, error) {
	f, err := recipe.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return recipe.Resolve(cmd.Context(), f, newEngine())
}

func printRecipe(cmd *cobra.Command, r *recipe.Recipe) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recipe.Summarize(r))
	}
	recipe.FormatSummary(r, os.Stdout)
	return nil
}

func init() {
	recipeComputeCmd.Flags().Bool("json", false, "output the computed recipe as JSON")
	recipeShowCmd.Flags().Bool("json", false, "output the recipe as JSON")
	recipeShowCmd.Flags().StringP("output", "o", "", "also write the recipe as a self-contained recipe file")
	recipeListCmd.Flags().Bool("json", false, "output the list as JSON")
	recipeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	recipeCmd.AddCommand(recipeComputeCmd)
	recipeCmd.AddCommand(recipeSaveCmd)
	recipeCmd.AddCommand(recipeListCmd)
	recipeCmd.AddCommand(recipeShowCmd)
	recipeCmd.AddCommand(recipeDeleteCmd)
	recipeCmd.AddCommand(recipeExportCmd)
	rootCmd.AddCommand(recipeCmd)
}
