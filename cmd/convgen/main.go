// Command convgen batch-compiles a catalog of conversion formulas into
// one generated Go source file.
//
// The catalog is a JSON array of records:
//
//	[{"tag": "FocalLength", "scope": "Exif",
//	  "formula": "sprintf(\"%.1f mm\",$val)", "kind": "display"}]
//
// Each record produces exactly one function: a registry override is
// referenced directly, a compilable formula is compiled, and anything
// else gets the degrade fallback so the generated file always builds.
//
// Usage:
//
//	convgen -catalog catalog.json -out conversions_gen.go -pkg conversions
//	convgen -catalog catalog.json -out conversions_gen.go -watch
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tagforge/convgen/pkg/audit"
	"github.com/tagforge/convgen/pkg/codegen"
	"github.com/tagforge/convgen/pkg/registry"
	"github.com/tagforge/convgen/pkg/types"
)

// catalogRecord is one per-field conversion rule from the catalog.
type catalogRecord struct {
	Tag     string `json:"tag"`
	Scope   string `json:"scope"`
	Formula string `json:"formula"`
	Kind    string `json:"kind"`
}

func main() {
	catalogPath := flag.String("catalog", "", "path to the JSON formula catalog")
	outPath := flag.String("out", "conversions_gen.go", "path of the generated Go file")
	pkgName := flag.String("pkg", "conversions", "package name of the generated file")
	auditPath := flag.String("audit", "", "write the coverage audit log as JSON to this path")
	watch := flag.Bool("watch", false, "recompile whenever the catalog changes")
	verbose := flag.Bool("v", false, "per-formula debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if *catalogPath == "" {
		log.Fatal().Msg("missing -catalog")
	}

	run := func() {
		if err := compileCatalog(log, *catalogPath, *outPath, *pkgName, *auditPath); err != nil {
			log.Error().Err(err).Msg("compilation failed")
			if !*watch {
				os.Exit(1)
			}
		}
	}
	run()

	if !*watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start watcher")
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(*catalogPath)); err != nil {
		log.Fatal().Err(err).Msg("cannot watch catalog directory")
	}
	log.Info().Str("catalog", *catalogPath).Msg("watching for changes")

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(*catalogPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Info().Str("event", ev.Op.String()).Msg("catalog changed")
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watch error")
		}
	}
}

// compileCatalog classifies every record and writes the generated file.
func compileCatalog(log zerolog.Logger, catalogPath, outPath, pkgName, auditPath string) error {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return err
	}
	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("catalog %s: %w", catalogPath, err)
	}

	gen := codegen.New()
	var funcs []string
	tables := map[types.Kind][]tableEntry{}
	extraImports := map[string]bool{}
	seenNames := map[string]int{}

	var overrides, compiled, fallbacks int
	for _, rec := range records {
		kind := parseKind(rec.Kind)
		name := funcName(rec, kind, seenNames)

		res := registry.Classify(rec.Formula, rec.Scope, kind)
		switch res.Kind {
		case registry.Override:
			overrides++
			extraImports[res.Module] = true
			ref := path.Base(res.Module) + "." + res.Func
			tables[kind] = append(tables[kind], tableEntry{rec.Tag, ref})
			log.Debug().Str("tag", rec.Tag).Str("func", ref).Msg("registry override")

		case registry.Compiled:
			src, genErr := gen.Generate(res.Expr.AST(), kind, name)
			if genErr != nil {
				// The parse succeeded but a node had no generation
				// rule; degrade exactly like an unimplemented formula.
				log.Warn().Str("tag", rec.Tag).Err(genErr).Msg("generation failed, emitting fallback")
				audit.Record(rec.Tag, rec.Formula, kind)
				src = gen.GenerateFallback(kind, name)
				fallbacks++
			} else {
				compiled++
			}
			funcs = append(funcs, src)
			tables[kind] = append(tables[kind], tableEntry{rec.Tag, name})
			log.Debug().Str("tag", rec.Tag).Str("func", name).Msg("compiled")

		case registry.Unimplemented:
			fallbacks++
			funcs = append(funcs, gen.GenerateFallback(kind, name))
			tables[kind] = append(tables[kind], tableEntry{rec.Tag, name})
			log.Debug().Str("tag", rec.Tag).Msg("unimplemented, emitting fallback")
		}
	}

	out, err := renderFile(pkgName, gen, extraImports, funcs, tables)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return err
	}

	if auditPath != "" {
		snapshot, err := json.MarshalIndent(audit.Snapshot(), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(auditPath, snapshot, 0o644); err != nil {
			return err
		}
	}

	log.Info().
		Int("records", len(records)).
		Int("overrides", overrides).
		Int("compiled", compiled).
		Int("fallbacks", fallbacks).
		Str("out", outPath).
		Msg("catalog compiled")
	return nil
}

// tableEntry is one row of a generated dispatch table.
type tableEntry struct {
	tag string
	ref string
}

// renderFile assembles the generated source file.
func renderFile(pkgName string, gen *codegen.Generator, extra map[string]bool, funcs []string, tables map[types.Kind][]tableEntry) (string, error) {
	var sb strings.Builder
	sb.WriteString("// Code generated by convgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", pkgName)

	imports := gen.Imports()
	for p := range extra {
		imports = append(imports, p)
	}
	for _, entries := range tables {
		if len(entries) > 0 {
			// The dispatch table signatures always name tagval types.
			imports = append(imports, "github.com/tagforge/convgen/pkg/tagval")
			break
		}
	}
	sort.Strings(imports)
	imports = dedupe(imports)
	if len(imports) > 0 {
		sb.WriteString("import (\n")
		for _, p := range imports {
			fmt.Fprintf(&sb, "\t%q\n", p)
		}
		sb.WriteString(")\n\n")
	}

	for _, f := range funcs {
		sb.WriteString(f)
		sb.WriteString("\n")
	}

	writeTable(&sb, "ValueConversions", "func(tagval.Value) (tagval.Value, error)", tables[types.KindValue])
	writeTable(&sb, "DisplayConversions", "func(tagval.Value) (tagval.Value, error)", tables[types.KindDisplay])
	writeTable(&sb, "Conditions", "func(tagval.Value, *tagval.Context) bool", tables[types.KindCondition])

	return sb.String(), nil
}

// writeTable emits one tag-to-function dispatch table.
func writeTable(sb *strings.Builder, name, sig string, entries []tableEntry) {
	if len(entries) == 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })
	fmt.Fprintf(sb, "var %s = map[string]%s{\n", name, sig)
	for _, e := range entries {
		fmt.Fprintf(sb, "\t%q: %s,\n", e.tag, e.ref)
	}
	sb.WriteString("}\n\n")
}

// parseKind maps a catalog kind string to its Kind, defaulting to a
// value conversion.
func parseKind(s string) types.Kind {
	switch s {
	case "display":
		return types.KindDisplay
	case "condition":
		return types.KindCondition
	default:
		return types.KindValue
	}
}

// funcName derives a unique Go identifier for a record.
func funcName(rec catalogRecord, kind types.Kind, seen map[string]int) string {
	prefix := map[types.Kind]string{
		types.KindValue:     "Value",
		types.KindDisplay:   "Display",
		types.KindCondition: "Cond",
	}[kind]

	var id strings.Builder
	for _, r := range rec.Scope + rec.Tag {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			id.WriteRune(r)
		}
	}
	name := prefix + "_" + id.String()
	seen[name]++
	if n := seen[name]; n > 1 {
		name = fmt.Sprintf("%s_%d", name, n)
	}
	return name
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
