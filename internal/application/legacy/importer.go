// Package legacy importa los datos del formato heredado de la aplicación de escritorio:
// <dir>/config.json, <dir>/devis/<año>/*.json y <dir>/factures/<año>/*.json.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
	"github.com/Toutiscope/Facturation/internal/domain/validation"
)

// Carpetas del formato heredado por tipo.
var folders = map[entity.Kind]string{
	entity.KindQuote:   "devis",
	entity.KindInvoice: "factures",
}

// Options ajusta la importación.
type Options struct {
	// Overwrite reemplaza documentos que ya existen en el destino.
	Overwrite bool
	// DryRun solo valida; no escribe nada.
	DryRun bool
}

// Skipped documento no importado.
type Skipped struct {
	File   string                       `json:"file"`
	Reason string                       `json:"reason"`
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// Report resumen de la importación.
type Report struct {
	Settings bool                 `json:"settings"`
	Imported map[entity.Kind]int  `json:"imported"`
	Skipped  []Skipped            `json:"skipped"`
	Counters entity.SequenceState `json:"counters"`
}

// Importer vuelca un directorio heredado en los repositorios actuales.
type Importer struct {
	tx  TxRunner
	log zerolog.Logger
}

// NewImporter construye el importador.
func NewImporter(tx TxRunner, log zerolog.Logger) *Importer {
	return &Importer{tx: tx, log: log}
}

// Import lee dir y guarda configuración y documentos dentro de una unidad de trabajo.
// Los documentos inválidos o ya existentes se omiten y se listan en el informe;
// un error de almacenamiento aborta la importación.
func (im *Importer) Import(ctx context.Context, dir string, opts Options) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s no es un directorio", domain.ErrInvalidInput, dir)
	}

	report := &Report{Imported: map[entity.Kind]int{}}
	err = im.tx.Run(ctx, func(docs repository.DocumentRepository, settings repository.SettingsRepository) error {
		seq := billing.NewSequencer(settings, im.log)

		// ── 1. Configuración ──────────────────────────────────────────────────
		legacyCounters, found, err := im.importSettings(ctx, dir, settings, opts)
		if err != nil {
			return err
		}
		report.Settings = found

		// ── 2. Documentos ─────────────────────────────────────────────────────
		for _, kind := range entity.Kinds {
			files, err := legacyFiles(filepath.Join(dir, folders[kind]))
			if err != nil {
				return err
			}
			for _, file := range files {
				if err := ctx.Err(); err != nil {
					return err
				}
				skip, err := im.importDocument(ctx, kind, file, docs, seq, opts)
				if err != nil {
					return err
				}
				if skip != nil {
					rel, _ := filepath.Rel(dir, file)
					skip.File = rel
					report.Skipped = append(report.Skipped, *skip)
					im.log.Warn().Str("file", rel).Str("reason", skip.Reason).Msg("documento omitido")
					continue
				}
				report.Imported[kind]++
			}
		}

		// ── 3. Contadores heredados ───────────────────────────────────────────
		// Pueden superar al último documento conservado (documentos borrados).
		if !opts.DryRun {
			for _, kind := range entity.Kinds {
				if n := legacyCounters.Counter(kind); n > 0 {
					if err := settings.AdvanceSequence(ctx, kind, n); err != nil {
						return fmt.Errorf("advance %s sequence: %w", kind, err)
					}
				}
			}
		}
		report.Counters, err = settings.LoadSequence(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	im.log.Info().
		Int("quotes", report.Imported[entity.KindQuote]).
		Int("invoices", report.Imported[entity.KindInvoice]).
		Int("skipped", len(report.Skipped)).
		Bool("dry_run", opts.DryRun).
		Msg("importación terminada")
	return report, nil
}

func (im *Importer) importSettings(ctx context.Context, dir string, repo repository.SettingsRepository, opts Options) (entity.SequenceState, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.SequenceState{}, false, nil
		}
		return entity.SequenceState{}, false, fmt.Errorf("read config.json: %w", err)
	}
	text, err := decodeText(data)
	if err != nil {
		return entity.SequenceState{}, false, fmt.Errorf("decode config.json: %w", err)
	}
	s := entity.DefaultSettings()
	if err := json.Unmarshal(text, s); err != nil {
		return entity.SequenceState{}, false, fmt.Errorf("%w: config.json: %v", domain.ErrInvalidInput, err)
	}
	if s.Billing.Currency == "" {
		s.Billing.Currency = entity.DefaultCurrency
	}
	if !opts.DryRun {
		if err := repo.Save(ctx, s); err != nil {
			return entity.SequenceState{}, false, fmt.Errorf("save settings: %w", err)
		}
	}
	return s.Sequence(), true, nil
}

// importDocument devuelve un Skipped si el documento no se importa, o un error si hay que abortar.
func (im *Importer) importDocument(
	ctx context.Context,
	kind entity.Kind,
	file string,
	docs repository.DocumentRepository,
	seq *billing.Sequencer,
	opts Options,
) (*Skipped, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	text, err := decodeText(data)
	if err != nil {
		return &Skipped{Reason: "unreadable encoding: " + err.Error()}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return &Skipped{Reason: "invalid JSON: " + err.Error()}, nil
	}
	translate(kind, tree)
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", file, err)
	}

	if res := validation.Validate(kind, raw); !res.Valid() {
		return &Skipped{Reason: "validation failed", Errors: res.Errors}, nil
	}
	var doc entity.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	if doc.ID == "" {
		doc.ID = doc.Numero
	}

	if !opts.Overwrite {
		_, err := docs.Get(ctx, kind, doc.ID)
		switch {
		case err == nil:
			return &Skipped{Reason: "already exists"}, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("lookup %s: %w", doc.ID, err)
		}
	}
	if opts.DryRun {
		return nil, nil
	}
	if err := docs.Put(ctx, &doc); err != nil {
		return nil, fmt.Errorf("store %s: %w", doc.ID, err)
	}
	if err := seq.Commit(ctx, kind, doc.Numero); err != nil {
		return nil, err
	}
	return nil, nil
}

// legacyFiles lista <root>/<año>/*.json en orden; una carpeta ausente no es un error.
func legacyFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
