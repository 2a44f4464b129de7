// Package scaffold generates shell script projects from embedded
// templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/colonyops/runbook/pkg/fsutil"
	"github.com/colonyops/runbook/pkg/tmpl"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

//go:embed all:templates
var templatesFS embed.FS

// templateRoot is the embedded directory holding one subdirectory per
// component.
const templateRoot = "templates"

// entrypointFile is the template file renamed to <name>.sh on render.
const entrypointFile = "script.sh"

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Data is the template context for rendered files.
type Data struct {
	Name    string
	Author  string
	Year    int
	LogFile string
}

// Builder scaffolds projects from the embedded template tree.
type Builder struct {
	Author string
	Log    zerolog.Logger
}

// ValidateName checks that a project name is usable as a directory and
// script name.
func ValidateName(name string) error {
	return criterio.Run("name", name, func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("name is required")
		}
		if !namePattern.MatchString(v) {
			return errors.New("must be lowercase letters, digits, dots, dashes, or underscores")
		}
		return nil
	})
}

// Components returns the available component names, sorted.
func (b *Builder) Components() []string {
	entries, err := templatesFS.ReadDir(templateRoot)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names
}

// Build scaffolds a project named name under dest with the selected
// components and returns the project directory. The destination must
// not already exist unless force is set; with force, overwritten YAML
// files are backed up first. A failed build removes any directory it
// created.
func (b *Builder) Build(name, dest string, components []string, force bool) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	available := b.Components()
	for _, component := range components {
		if !slices.Contains(available, component) {
			return "", fmt.Errorf("unknown component %q (have %s)", component, strings.Join(available, ", "))
		}
	}

	projectDir := filepath.Join(dest, name)

	created := false
	if fsutil.Exists(projectDir) {
		if !force {
			return "", fmt.Errorf("directory %s already exists", projectDir)
		}
	} else {
		if err := os.MkdirAll(projectDir, 0o755); err != nil {
			return "", fmt.Errorf("create project directory: %w", err)
		}
		created = true
	}

	b.Log.Info().Str("name", name).Str("dir", projectDir).Msg("building project")

	data := Data{
		Name:    name,
		Author:  b.Author,
		Year:    time.Now().Year(),
		LogFile: filepath.Join("logs", name+".log.jsonl"),
	}

	if err := b.build(projectDir, components, data, force); err != nil {
		if created {
			b.Log.Warn().Str("dir", projectDir).Msg("cleaning up failed build")
			_ = os.RemoveAll(projectDir)
		}
		return "", err
	}

	return projectDir, nil
}

func (b *Builder) build(projectDir string, components []string, data Data, force bool) error {
	// The generated logging config points here, create it up front so
	// the entrypoint works on first run.
	if err := os.MkdirAll(filepath.Join(projectDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	for _, component := range components {
		if err := b.renderComponent(projectDir, component, data, force); err != nil {
			return fmt.Errorf("component %s: %w", component, err)
		}
	}

	return nil
}

// renderComponent walks one embedded component directory and writes its
// files into the project root. Files with a .tmpl suffix are rendered
// with the build data and the suffix stripped; the rest copy verbatim.
func (b *Builder) renderComponent(projectDir, component string, data Data, force bool) error {
	root := templateRoot + "/" + component

	return fs.WalkDir(templatesFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, root+"/")

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", rel, err)
		}

		if strings.HasSuffix(rel, ".tmpl") {
			rendered, err := tmpl.Render(string(content), data)
			if err != nil {
				return fmt.Errorf("render template %s: %w", rel, err)
			}
			content = []byte(rendered)
			rel = strings.TrimSuffix(rel, ".tmpl")
		}

		if filepath.Base(rel) == entrypointFile {
			rel = filepath.Join(filepath.Dir(rel), data.Name+".sh")
		}

		target := filepath.Join(projectDir, rel)

		if force && fsutil.Exists(target) && strings.HasSuffix(target, ".yaml") {
			backup, err := fsutil.Backup(target, "")
			if err != nil {
				return fmt.Errorf("back up %s: %w", rel, err)
			}
			b.Log.Debug().Str("file", rel).Str("backup", backup).Msg("backed up existing file")
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", rel, err)
		}

		perm := os.FileMode(0o644)
		if strings.HasSuffix(rel, ".sh") {
			perm = 0o755
		}

		if err := os.WriteFile(target, content, perm); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}

		b.Log.Debug().Str("file", rel).Msg("rendered")
		return nil
	})
}
