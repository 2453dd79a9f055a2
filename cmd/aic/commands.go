package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/artwork"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/catalog"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/config"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/gallery"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid artwork id %q", arg)
	}
	return id, nil
}

// galleryOp loads config, opens the gallery store, and runs fn against it.
func galleryOp(fn func(cfg config.Config, store *gallery.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, closeStore, err := openGallery(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(cfg, store)
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the artwork catalog",
	Long: `Search the Art Institute of Chicago catalog.

Saved artworks are marked with a check mark.

Examples:
  aic search monet
  aic search "water lilies" --limit 20
  aic search rembrandt --pages 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		page, _ := cmd.Flags().GetInt("page")
		pages, _ := cmd.Flags().GetInt("pages")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if limit == 0 {
			limit = cfg.Catalog.SearchLimit
		}

		client := catalog.New(cfg.Catalog.BaseURL)

		var items []artwork.CatalogItem
		var total int
		if pages > 1 {
			items, err = client.SearchPages(cmd.Context(), query, pages, limit)
			if err != nil {
				return err
			}
		} else {
			res, err := client.Search(cmd.Context(), query, page, limit)
			if err != nil {
				return err
			}
			items = res.Items
			total = res.Total
		}

		if len(items) == 0 {
			fmt.Println("No artworks found.")
			return nil
		}

		// Mark results already in the gallery. Purely cosmetic, so a
		// storage failure here is not fatal to the search.
		saved := make(map[int64]bool)
		if store, closeStore, err := openGallery(cfg); err == nil {
			for _, it := range store.Load() {
				saved[it.ID] = true
			}
			closeStore()
		}

		for _, it := range items {
			marker := "  "
			if saved[it.ID] {
				marker = colorize(colorGreen, "✓ ")
			}
			line := fmt.Sprintf("%s%s  %s by %s", marker,
				colorize(colorCyan, fmt.Sprintf("%8d", it.ID)), it.Title, it.ArtistTitle)
			if it.DateDisplay != nil && *it.DateDisplay != "" {
				line += fmt.Sprintf(" (%s)", *it.DateDisplay)
			}
			fmt.Println(line)
		}
		if total > len(items) {
			fmt.Printf("\nShowing %d of %d results. Use --page or --pages for more.\n", len(items), total)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("page", 1, "result page to fetch")
	searchCmd.Flags().Int("pages", 1, "number of pages to fetch concurrently")
	searchCmd.Flags().Int("limit", 0, "results per page (default from config)")
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details for a single artwork",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		client := catalog.New(cfg.Catalog.BaseURL)
		item, err := client.Artwork(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", colorize(colorBold, item.Title))
		printStatus("Artist", "%s", item.ArtistTitle)
		if item.DateDisplay != nil {
			printStatus("Date", "%s", *item.DateDisplay)
		}
		if item.MediumDisplay != nil {
			printStatus("Medium", "%s", *item.MediumDisplay)
		}
		if item.PlaceOfOrigin != nil {
			printStatus("Origin", "%s", *item.PlaceOfOrigin)
		}
		if item.Dimensions != nil {
			printStatus("Dimensions", "%s", *item.Dimensions)
		}
		if item.ImageID != nil {
			printStatus("Image", "%s", catalog.ImageURL(*item.ImageID))
		}

		store, closeStore, err := openGallery(cfg)
		if err != nil {
			return nil
		}
		defer closeStore()
		for _, it := range store.Load() {
			if it.ID == id {
				if it.Note != "" {
					printStatus("Note", "%s", it.Note)
				} else {
					printStatus("Saved", "yes")
				}
				break
			}
		}
		return nil
	},
}

// --- save ---

var saveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Save an artwork to your gallery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return galleryOp(func(cfg config.Config, store *gallery.Store) error {
			client := catalog.New(cfg.Catalog.BaseURL)
			item, err := client.Artwork(cmd.Context(), id)
			if err != nil {
				return err
			}

			added, err := store.Add(item)
			if err != nil {
				return err
			}
			if !added {
				printWarning("%q is already in your gallery", item.Title)
				return nil
			}
			printSuccess("Saved %q by %s (id %d)", item.Title, item.ArtistTitle, item.ID)
			return nil
		})
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your saved artworks",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		return galleryOp(func(cfg config.Config, store *gallery.Store) error {
			items := store.Load()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(items) == 0 {
				fmt.Println("Your gallery is empty.")
				return nil
			}

			for _, it := range items {
				artist := artwork.DefaultArtist
				if it.ArtistTitle != nil {
					artist = *it.ArtistTitle
				}
				fmt.Printf("%s  %s by %s\n",
					colorize(colorCyan, fmt.Sprintf("%8d", it.ID)), it.Title, artist)
				if it.Note != "" {
					fmt.Printf("          %s\n", colorize(colorYellow, it.Note))
				}
			}
			fmt.Printf("\n%d saved artwork(s)\n", len(items))
			return nil
		})
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "print the gallery as JSON")
}

// --- note ---

var noteCmd = &cobra.Command{
	Use:   "note <id> <text...>",
	Short: "Attach or replace the note on a saved artwork",
	Long: `Attach or replace the note on a saved artwork (max 500 characters).

Pass an empty string to clear the note:
  aic note 28560 ""`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		note := strings.Join(args[1:], " ")

		return galleryOp(func(cfg config.Config, store *gallery.Store) error {
			updated, err := store.UpdateNote(id, note)
			if artwork.IsNoteTooLong(err) {
				return fmt.Errorf("note is too long: the limit is %d characters", artwork.NoteMaxLen)
			}
			if err != nil {
				return err
			}
			if !updated {
				printWarning("No saved artwork with id %d", id)
				return nil
			}
			printSuccess("Updated note on artwork %d", id)
			return nil
		})
	},
}

// --- remove ---

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an artwork from your gallery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return galleryOp(func(cfg config.Config, store *gallery.Store) error {
			removed, err := store.Remove(id)
			if err != nil {
				return err
			}
			if !removed {
				printWarning("No saved artwork with id %d", id)
				return nil
			}
			printSuccess("Removed artwork %d from your gallery", id)
			return nil
		})
	},
}

// --- clear ---

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete your entire gallery",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL saved artworks and notes. Use --confirm to proceed.")
			return nil
		}

		return galleryOp(func(cfg config.Config, store *gallery.Store) error {
			if err := store.Clear(); err != nil {
				return err
			}
			printSuccess("Gallery cleared")
			return nil
		})
	},
}

func init() {
	clearCmd.Flags().Bool("confirm", false, "confirm gallery deletion")
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your gallery as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		return galleryOp(func(cfg config.Config, store *gallery.Store) error {
			var writer *os.File
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				writer = f
			} else {
				writer = os.Stdout
			}

			enc := json.NewEncoder(writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(store.Load()); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Gallery exported to %s", output)
			}
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().String("output", "", "output file path (default: stdout)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
