package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gubarz/regionfold/internal/config"
	"github.com/gubarz/regionfold/internal/document"
	"github.com/gubarz/regionfold/internal/folding"
	"github.com/gubarz/regionfold/internal/logging"
	"github.com/gubarz/regionfold/internal/output"
	"github.com/gubarz/regionfold/internal/ui"
	"github.com/gubarz/regionfold/internal/watch"
)

var version = "0.1.0"

var (
	cfgFile   string
	configErr error
	logger    = logging.Nop()
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured folding rules",
	Long: `Compiles every configured folding rule and lists the ones that
would be dropped, with the reason. Exits with status 1 if any rule is dropped.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var rootCmd = &cobra.Command{
	Use:   "regionfold [path]",
	Short: "Compute folding ranges from begin/end marker rules",
	Long: `Scans a file or directory with configurable begin/end folding rules
and prints the resulting 0-based, inclusive line ranges.

Use "-" as path to read from stdin.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runFold,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(checkCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: regionfold.yaml in ~/.config/regionfold, ~ or .)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging on stderr")
	rootCmd.Flags().StringP("output", "o", "", "Output mode: print, json, copy, view")
	rootCmd.Flags().Bool("print", false, "Print ranges (shorthand for -o print)")
	rootCmd.Flags().Bool("json", false, "Print ranges as JSON (shorthand for -o json)")
	rootCmd.Flags().Bool("copy", false, "Copy ranges (shorthand for -o copy)")
	rootCmd.Flags().Bool("view", false, "Open the fold viewer (shorthand for -o view)")
	rootCmd.Flags().BoolP("watch", "w", false, "Reload the viewer when the file changes")
	rootCmd.Flags().StringSlice("ext", nil, "File extensions to scan in a directory")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))
	viper.BindPFlag("extensions", rootCmd.Flags().Lookup("ext"))
}

func initConfig() {
	configErr = config.Init(cfgFile)
	logger = logging.New(config.GetVerbose())
	if configErr != nil {
		return
	}
	if used := config.ConfigFile(); used != "" {
		logger.Debug("loaded config", zap.String("file", used))
	}
}

// ============================================================================
// Folding
// ============================================================================

// scannerCache compiles each rule list once per extension
type scannerCache struct {
	logger   *zap.Logger
	scanners map[string]*folding.Scanner
}

func newScannerCache(logger *zap.Logger) *scannerCache {
	return &scannerCache{logger: logger, scanners: make(map[string]*folding.Scanner)}
}

// forPath returns the scanner for the rules that apply to path
func (c *scannerCache) forPath(path string) *folding.Scanner {
	key := filepath.Ext(path)
	if s, ok := c.scanners[key]; ok {
		return s
	}
	s := compileRules(config.SpecsFor(path), c.logger)
	c.scanners[key] = s
	return s
}

// compileRules compiles specs, logging every dropped rule
func compileRules(specs []folding.Spec, logger *zap.Logger) *folding.Scanner {
	patterns, errs := folding.CompileAll(specs...)
	for _, err := range errs {
		fields := []zap.Field{zap.Error(err)}
		var se *folding.SpecError
		if errors.As(err, &se) {
			fields = append(fields, zap.Int("index", se.Index), zap.String("field", se.Field))
		}
		logger.Warn("dropped folding rule", fields...)
	}
	logger.Debug("compiled folding rules", zap.Int("rules", len(specs)), zap.Int("patterns", len(patterns)))
	return folding.NewScanner(patterns)
}

// foldDocuments scans every document with the rules for its extension
func foldDocuments(docs []*document.Document, cache *scannerCache) []output.Result {
	results := make([]output.Result, 0, len(docs))
	for _, doc := range docs {
		ranges := cache.forPath(doc.Path).Scan(doc)
		cache.logger.Debug("scanned", zap.String("path", doc.Path), zap.Int("lines", doc.LineCount()), zap.Int("ranges", len(ranges)))
		results = append(results, output.Result{Path: doc.Path, Ranges: ranges})
	}
	return results
}

// loadDocuments reads path, or stdin when path is "-"
func loadDocuments(path string, stdin io.Reader) ([]*document.Document, error) {
	if path == "-" {
		doc, err := document.Read(stdin, "")
		if err != nil {
			return nil, err
		}
		return []*document.Document{doc}, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving path: %w", err)
	}
	docs, err := document.LoadPath(absPath, config.GetExtensions())
	if err != nil {
		return nil, fmt.Errorf("path error: %w", err)
	}
	return docs, nil
}

// resolveMode applies the shorthand flags over the configured output mode
func resolveMode(cmd *cobra.Command) (output.Mode, error) {
	for _, name := range []string{"print", "json", "copy", "view"} {
		if on, _ := cmd.Flags().GetBool(name); on {
			config.SetOutput(name)
			break
		}
	}
	return output.ParseMode(config.GetOutput())
}

func runFold(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return fmt.Errorf("error loading config: %w", configErr)
	}

	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	mode, err := resolveMode(cmd)
	if err != nil {
		return err
	}

	docs, err := loadDocuments(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cache := newScannerCache(logger)

	if mode == output.ModeView {
		if len(docs) != 1 || path == "-" {
			return fmt.Errorf("view mode needs a single file")
		}
		return runViewer(docs[0], cache)
	}

	results := foldDocuments(docs, cache)
	return output.NewWriter().WithOutput(cmd.OutOrStdout()).Write(results, mode)
}

// runViewer opens the fold viewer, reloading on change in watch mode
func runViewer(doc *document.Document, cache *scannerCache) error {
	scanner := cache.forPath(doc.Path)
	load := func() (ui.Snapshot, error) {
		fresh, err := document.Load(doc.Path)
		if err != nil {
			return ui.Snapshot{}, err
		}
		return ui.Snapshot{Path: fresh.Path, Lines: fresh.Lines, Ranges: scanner.Scan(fresh)}, nil
	}
	snap := ui.Snapshot{Path: doc.Path, Lines: doc.Lines, Ranges: scanner.Scan(doc)}

	if !config.GetWatch() {
		return ui.Run(snap, load, nil)
	}

	fw, err := watch.New(doc.Path, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Run(ctx)

	return ui.Run(snap, load, fw.Changes())
}

// ============================================================================
// Check
// ============================================================================

// ruleSet is a named list of folding rules from the config
type ruleSet struct {
	name  string
	specs []folding.Spec
}

func configuredRuleSets() []ruleSet {
	sets := []ruleSet{{name: "folding", specs: config.C.Folding}}
	if len(config.C.Folding) == 0 {
		sets[0] = ruleSet{name: "folding (built-in)", specs: config.DefaultFolding}
	}

	langs := make([]string, 0, len(config.C.Languages))
	for lang := range config.C.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		sets = append(sets, ruleSet{name: "languages." + lang, specs: config.C.Languages[lang]})
	}
	return sets
}

// checkRules reports each rule and returns how many were dropped
func checkRules(w io.Writer, sets []ruleSet) int {
	dropped := 0
	for _, set := range sets {
		fmt.Fprintf(w, "%s:\n", set.name)
		failed := make(map[int]error)
		_, errs := folding.CompileAll(set.specs...)
		for _, err := range errs {
			var se *folding.SpecError
			if errors.As(err, &se) {
				failed[se.Index] = err
			}
		}
		for i, spec := range set.specs {
			if err, ok := failed[i]; ok {
				fmt.Fprintf(w, "  drop %v\n", err)
				dropped++
				continue
			}
			fmt.Fprintf(w, "  ok   %s\n", describeSpec(i, spec))
		}
	}
	return dropped
}

func describeSpec(i int, spec folding.Spec) string {
	label := fmt.Sprintf("spec %d", i)
	if spec.Name != "" {
		label = fmt.Sprintf("spec %d (%s)", i, spec.Name)
	}
	if spec.BeginRegex != "" && spec.EndRegex != "" {
		return fmt.Sprintf("%s: /%s/ ... /%s/", label, spec.BeginRegex, spec.EndRegex)
	}
	return fmt.Sprintf("%s: %q ... %q", label, spec.Begin, spec.End)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return fmt.Errorf("error loading config: %w", configErr)
	}
	if n := checkRules(cmd.OutOrStdout(), configuredRuleSets()); n > 0 {
		return fmt.Errorf("%d folding rule(s) dropped", n)
	}
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
