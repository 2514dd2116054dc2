package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/cca-libraries/vault-migrate/invenio"
	"github.com/cca-libraries/vault-migrate/lookup"
	"github.com/cca-libraries/vault-migrate/record"
	"github.com/cca-libraries/vault-migrate/subjects"
	"github.com/cca-libraries/vault-migrate/vault"
)

var (
	outputDir    string
	subjectsFile string
	tablesFile   string
	strict       bool
	workers      int
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert VAULT items to InvenioRDM record JSON",
	Long: `Convert VAULT item exports to InvenioRDM record JSON.

Each input file may be a single item JSON, an EQUELLA search-results JSON,
or a bare XML metadata document. Records print to stdout unless --output
names a directory, in which case each record is written to <uuid>.json.

Examples:
  vault-migrate convert item.json
  vault-migrate convert --output records/ export.json
  vault-migrate convert --strict --workers 8 export.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: stdout)")
	convertCmd.Flags().StringVar(&subjectsFile, "subjects-map", "subjects_map.json", "Subject term to vocabulary ID map (JSON)")
	convertCmd.Flags().StringVar(&tablesFile, "tables", "", "Lookup-table overrides (YAML)")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Treat data-quality problems as errors")
	convertCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of concurrent conversion workers")
}

// buildMapper assembles a record mapper from the shared flags.
func buildMapper() (*record.Mapper, error) {
	subjectMap, err := subjects.LoadMap(subjectsFile)
	if err != nil {
		return nil, fmt.Errorf("loading subjects map: %w", err)
	}
	tables := lookup.Defaults()
	if tablesFile != "" {
		tables, err = lookup.Load(tablesFile)
		if err != nil {
			return nil, fmt.Errorf("loading lookup tables: %w", err)
		}
	}
	return record.NewMapper(record.Config{
		Tables:   tables,
		Subjects: subjectMap,
		Strict:   strict,
	})
}

type conversionResult struct {
	item vault.Item
	rec  *invenio.Record
	err  error
}

func runConvert(cmd *cobra.Command, args []string) error {
	mapper, err := buildMapper()
	if err != nil {
		return err
	}

	var items []vault.Item
	for _, path := range args {
		read, err := vault.ReadItems(path)
		if err != nil {
			return err
		}
		items = append(items, read...)
	}

	if workers < 1 {
		workers = 1
	}

	// fan out over a bounded pool, gather by index so output order always
	// matches input order
	results := make([]conversionResult, len(items))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				rec, err := mapper.Map(items[i])
				results[i] = conversionResult{item: items[i], rec: rec, err: err}
			}
		}()
	}
	for i := range items {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	var failed int
	for _, result := range results {
		if result.err != nil {
			failed++
			fmt.Fprintln(os.Stderr, result.err)
			continue
		}
		if err := writeRecord(result.item, result.rec); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d items failed to convert", failed, len(items))
	}
	return nil
}

func writeRecord(item vault.Item, rec *invenio.Record) error {
	data, err := rec.JSON()
	if err != nil {
		return err
	}
	if outputDir == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	name := item.UUID
	if name == "" {
		name = "record"
	}
	path := filepath.Join(outputDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
