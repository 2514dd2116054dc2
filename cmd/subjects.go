package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cca-libraries/vault-migrate/subjects"
	"github.com/cca-libraries/vault-migrate/vault"
	"github.com/cca-libraries/vault-migrate/xmltree"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects <file>...",
	Short: "List the subjects found in VAULT metadata",
	Long: `Print the deduplicated, sorted set of subjects found in the given
VAULT exports. Useful for reconciling legacy terms against the subjects
vocabulary spreadsheet before a migration run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubjects,
}

func runSubjects(cmd *cobra.Command, args []string) error {
	seen := map[subjects.Subject]struct{}{}
	for _, path := range args {
		items, err := vault.ReadItems(path)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Metadata == "" {
				continue
			}
			tree, err := xmltree.ParseString(item.Metadata)
			if err != nil {
				return fmt.Errorf("item %s: %w", item.UUID, err)
			}
			for _, s := range subjects.Find(tree) {
				seen[s] = struct{}{}
			}
		}
	}

	found := make([]subjects.Subject, 0, len(seen))
	for s := range seen {
		found = append(found, s)
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Type != found[j].Type {
			return found[i].Type < found[j].Type
		}
		return found[i].Value < found[j].Value
	})
	for _, s := range found {
		fmt.Println(s)
	}
	return nil
}
