package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cca-libraries/vault-migrate/invenio"
	"github.com/cca-libraries/vault-migrate/record"
	"github.com/cca-libraries/vault-migrate/vault"
)

var (
	ignoreErrors bool
	noMap        bool
	mapFile      string
)

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Import an exported item and its attachments into InvenioRDM",
	Long: `Import an exported VAULT item into InvenioRDM.

The directory must be laid out like the equella_scripts collection-export
tool leaves it: attachment files at the top level and the item envelope at
metadata/item.json.

Connection settings come from the environment (a .env file is honored):
  INVENIO_TOKEN or TOKEN   personal access token (required)
  HOST                     Invenio hostname
  HTTPS_VERIFY             "true" to verify TLS certificates

Each published record is appended to an ID-map JSON file keyed by the
item's legacy view URL, unless --no-map is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&ignoreErrors, "ignore-errors", "i", false, "Continue past upload errors")
	importCmd.Flags().BoolVar(&noMap, "no-map", false, "Do not update the ID mapping file")
	importCmd.Flags().StringVar(&mapFile, "map-file", "id-map.json", "Path to ID mapping file")
	importCmd.Flags().StringVar(&subjectsFile, "subjects-map", "subjects_map.json", "Subject term to vocabulary ID map (JSON)")
	importCmd.Flags().StringVar(&tablesFile, "tables", "", "Lookup-table overrides (YAML)")
	importCmd.Flags().BoolVar(&strict, "strict", false, "Treat data-quality problems as errors")
}

// mapEntry is one ID-map record: enough to find the imported record and to
// assign ownership later.
type mapEntry struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Owner         string   `json:"owner,omitempty"`
	Collaborators []string `json:"collaborators,omitempty"`
	ViewLevel     string   `json:"viewlevel,omitempty"`
	Status        string   `json:"status"`
}

func runImport(cmd *cobra.Command, args []string) error {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	token := os.Getenv("INVENIO_TOKEN")
	if token == "" {
		token = os.Getenv("TOKEN")
	}
	if token == "" {
		return fmt.Errorf("provide a personal access token in the TOKEN or INVENIO_TOKEN env var")
	}
	host := os.Getenv("HOST")
	if host == "" {
		return fmt.Errorf("provide the Invenio hostname in the HOST env var")
	}
	verify := strings.EqualFold(os.Getenv("HTTPS_VERIFY"), "true")

	directory := args[0]
	items, err := vault.ReadItems(filepath.Join(directory, "metadata", "item.json"))
	if err != nil {
		return err
	}
	item := items[0]

	mapper, err := buildMapper()
	if err != nil {
		return err
	}
	rec, err := mapper.Map(item)
	if err != nil {
		return err
	}

	client := invenio.NewClient("https://"+host, token, verify)
	ctx := cmd.Context()

	fmt.Printf("Importing %s from %s\n", rec.Metadata.Title, directory)
	recordID, err := upload(ctx, client, rec, directory)
	if err != nil && !ignoreErrors {
		return err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if noMap || recordID == "" {
		return nil
	}
	return updateMap(item, rec, recordID)
}

// upload runs the full REST flow for one record: draft, files, publish,
// communities. With --ignore-errors a community failure does not abort the
// already published record.
func upload(ctx context.Context, client *invenio.Client, rec *invenio.Record, directory string) (string, error) {
	draft, err := client.CreateDraft(ctx, rec)
	if err != nil {
		return "", err
	}

	for _, name := range rec.Files.Order {
		f, err := os.Open(filepath.Join(directory, name))
		if err != nil {
			return "", fmt.Errorf("attachment %q: %w", name, err)
		}
		err = client.UploadFile(ctx, draft, name, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}

	recordID, err := client.Publish(ctx, draft)
	if err != nil {
		return "", err
	}

	public := rec.Access.Record == "public"
	for _, slug := range record.Slugs(rec.Communities) {
		community, err := client.GetCommunity(ctx, slug)
		if err != nil {
			// a missing community is an instance-setup problem, not a
			// record problem
			fmt.Fprintf(os.Stderr, "community %q lookup failed: %v\n", slug, err)
			if !ignoreErrors {
				return recordID, err
			}
			continue
		}
		if err := client.AddToCommunity(ctx, recordID, community, public); err != nil {
			if !ignoreErrors {
				return recordID, err
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fmt.Printf("Published record %s\n", recordID)
	return recordID, nil
}

// updateMap records the imported item in the ID-map file, keyed by the
// legacy view URL.
func updateMap(item vault.Item, rec *invenio.Record, recordID string) error {
	idMap := map[string]mapEntry{}
	data, err := os.ReadFile(mapFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// first import creates the file
	case err != nil:
		return fmt.Errorf("reading ID map: %w", err)
	default:
		if err := json.Unmarshal(data, &idMap); err != nil {
			return fmt.Errorf("parsing ID map %s: %w", mapFile, err)
		}
	}

	key := item.Links.View
	if key == "" {
		key = item.Permalink()
	}
	if _, exists := idMap[key]; exists {
		fmt.Fprintf(os.Stderr, "Warning: VAULT item %s already in mapping, overwriting\n", key)
	}

	collaborators := make([]string, 0, len(item.Collabs))
	for _, c := range item.Collabs {
		collaborators = append(collaborators, c.ID)
	}
	idMap[key] = mapEntry{
		ID:            recordID,
		Title:         rec.Metadata.Title,
		Owner:         item.Owner.ID,
		Collaborators: collaborators,
		ViewLevel:     rec.ViewLevel,
		Status:        "imported",
	}

	out, err := json.MarshalIndent(idMap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(mapFile, out, 0o644); err != nil {
		return fmt.Errorf("writing ID map: %w", err)
	}
	fmt.Printf("Wrote ID mapping to %s\n", mapFile)
	return nil
}
