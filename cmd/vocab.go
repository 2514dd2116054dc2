package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	vocabDir string
	mapOut   string
	includes []string
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Build InvenioRDM vocabulary fixtures",
	Long: `Build InvenioRDM vocabulary fixtures from legacy VAULT sources:
the creator-role list, the subjects spreadsheet CSV, and the subject-names
taxonomy export.`,
}

var vocabRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Write the creator-role vocabulary fixture",
	RunE:  runVocabRoles,
}

var vocabSubjectsCmd = &cobra.Command{
	Use:   "subjects <csv>",
	Short: "Convert the subjects spreadsheet CSV into vocabulary fixtures",
	Long: `Convert a CSV export of the subjects & genres reconciliation sheet
into three files: the term-to-ID map used by convert, the local subjects
fixture, and the Library of Congress subjects fixture.`,
	Args: cobra.ExactArgs(1),
	RunE: runVocabSubjects,
}

var vocabNamesCmd = &cobra.Command{
	Use:   "names <taxonomy.json>",
	Short: "Convert the subject-names taxonomy into a subjects fixture",
	Long: `Convert the "LIBRARIES - subject name" EQUELLA taxonomy JSON into a
local subjects YAML fixture. Only locally-authorized names are included;
external-authority names get URIs through the spreadsheet instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runVocabNames,
}

func init() {
	vocabCmd.PersistentFlags().StringVar(&vocabDir, "vocab-dir", "vocab", "Directory for YAML fixtures")
	vocabSubjectsCmd.Flags().StringVar(&mapOut, "map-out", "subjects_map.json", "Path for the term-to-ID map")
	vocabSubjectsCmd.Flags().StringSliceVar(&includes, "include", nil, "Premade subject YAML files to merge into the local vocabulary")
	vocabCmd.AddCommand(vocabRolesCmd)
	vocabCmd.AddCommand(vocabSubjectsCmd)
	vocabCmd.AddCommand(vocabNamesCmd)
}

// termID derives a stable ID for a local vocabulary term. URL namespace
// UUIDv5 for lack of a real identifier scheme.
func termID(term string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(term)).String()
}

// creatorRoles is the deduplicated list of legacy role terms, filtered to
// those with a MARC relator equivalent ("editor" and "researcher" are
// omitted because DataCite already defines them).
var creatorRoles = []string{
	"architect",
	"artist",
	"associated name",
	"author",
	"author of introduction, etc.",
	"book designer",
	"bookjacket designer",
	"calligrapher",
	"cinematographer",
	"compiler",
	"contributor",
	"creator",
	"curator",
	"designer",
	"founder",
	"illustrator",
	"interviewee",
	"interviewer",
	"manufacturer",
	"minute taker",
	"narrator",
	"organizer",
	"performer",
	"photographer",
	"platemaker",
	"printer",
	"printmaker",
	"producer",
	"publisher",
	"recording engineer",
	"reviewer",
	"sculptor",
	"speaker",
	"teacher",
	"transcriber",
}

type roleFixture struct {
	ID    string            `yaml:"id"`
	Title map[string]string `yaml:"title"`
}

func runVocabRoles(cmd *cobra.Command, args []string) error {
	fixtures := make([]roleFixture, 0, len(creatorRoles))
	for _, role := range creatorRoles {
		fixtures = append(fixtures, roleFixture{
			ID:    strings.ReplaceAll(strings.ToLower(role), " ", ""),
			Title: map[string]string{"en": capitalizeFirst(role)},
		})
	}
	path := filepath.Join(vocabDir, "roles.yaml")
	if err := writeYAML(path, fixtures); err != nil {
		return err
	}
	fmt.Printf("Wrote Invenio roles fixture to %s\n", path)
	return nil
}

// subjectFixture is one Invenio subjects vocabulary entry.
type subjectFixture struct {
	ID      string `yaml:"id,omitempty" json:"id,omitempty"`
	Scheme  string `yaml:"scheme" json:"scheme"`
	Subject string `yaml:"subject" json:"subject"`
}

func runVocabSubjects(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"Auth", "Status", "VAULT value", "New Value", "Auth URI"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("CSV is missing the %q column", required)
		}
	}

	subjectsMap := map[string]string{}
	fixtures := map[string][]subjectFixture{"cca_local": {}, "lc": {}}

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading CSV: %w", err)
	}
	for _, row := range rows {
		auth := strings.ToUpper(row[col["Auth"]])
		status := strings.ToLower(row[col["Status"]])
		vaultValue := row[col["VAULT value"]]
		term := row[col["New Value"]]
		if term == "" {
			term = vaultValue
		}
		authURI := row[col["Auth URI"]]

		if status == "omit" || status == "problem" || status == "" {
			continue
		}

		fixture := subjectFixture{Subject: term}
		switch {
		case auth == "LOCAL":
			// combined local subjects must name their replacement term
			if status == "combine" && row[col["New Value"]] == "" {
				return fmt.Errorf("combined local subject without a New Value: %s", term)
			}
			fixture.ID = termID(term)
			fixture.Scheme = "cca_local"
		case auth == "ULAN":
			// ULAN names live in the local vocabulary but keep their URIs
			if authURI == "" {
				return fmt.Errorf("no Auth URI for ULAN subject %q", term)
			}
			fixture.ID = authURI
			fixture.Scheme = "cca_local"
		case strings.HasPrefix(auth, "LC"):
			// covers LCNAF, LCSH, and LCGFT
			if authURI == "" {
				return fmt.Errorf("no Auth URI for LC subject %q (%s)", term, auth)
			}
			fixture.ID = authURI
			fixture.Scheme = "lc"
		default:
			return fmt.Errorf("unrecognized authority %q for subject %q", auth, term)
		}

		subjectsMap[strings.ToLower(vaultValue)] = fixture.ID
		// combined terms land in the map but not the fixture files
		if status == "done" {
			fixtures[fixture.Scheme] = append(fixtures[fixture.Scheme], fixture)
		}
	}

	// premade sub-vocabularies merge into the local scheme
	for _, include := range includes {
		data, err := os.ReadFile(include)
		if err != nil {
			return err
		}
		var premade []subjectFixture
		if err := yaml.Unmarshal(data, &premade); err != nil {
			return fmt.Errorf("parsing %s: %w", include, err)
		}
		for _, fixture := range premade {
			key := strings.ToLower(fixture.Subject)
			if _, exists := subjectsMap[key]; exists {
				continue
			}
			fixture.ID = termID(fixture.Subject)
			subjectsMap[key] = fixture.ID
			fixtures[fixture.Scheme] = append(fixtures[fixture.Scheme], fixture)
		}
	}

	mapData, err := json.MarshalIndent(subjectsMap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(mapOut, mapData, 0o644); err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(vocabDir, "cca_local.yaml"), fixtures["cca_local"]); err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(vocabDir, "lc.yaml"), fixtures["lc"]); err != nil {
		return err
	}
	fmt.Printf("Wrote %d terms to %s and fixtures to %s\n", len(subjectsMap), mapOut, vocabDir)
	return nil
}

// taxonomyTerm is one EQUELLA taxonomy node. fullTerm carries the authority
// path, e.g. "local\personal\Doe, Jane".
type taxonomyTerm struct {
	Term     string `json:"term"`
	FullTerm string `json:"fullTerm"`
}

func runVocabNames(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var terms []taxonomyTerm
	if err := json.Unmarshal(data, &terms); err != nil {
		return fmt.Errorf("parsing taxonomy %s: %w", args[0], err)
	}

	fixtures := []subjectFixture{}
	for _, term := range terms {
		if strings.HasPrefix(term.FullTerm, "local") {
			fixtures = append(fixtures, subjectFixture{Subject: term.Term, Scheme: "cca_local"})
		}
	}

	path := filepath.Join(vocabDir, "subject_names.yaml")
	if err := writeYAML(path, fixtures); err != nil {
		return err
	}
	fmt.Printf("Wrote %d subject names to %s\n", len(fixtures), path)
	return nil
}

func writeYAML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
