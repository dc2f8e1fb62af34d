package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nkaramanos/lettergen/internal/category"
	"github.com/nkaramanos/lettergen/internal/dataset"
	"github.com/nkaramanos/lettergen/internal/docx"
	"github.com/nkaramanos/lettergen/internal/field"
)

// TemplateSet maps a category name to its template blob. The blobs are
// read-only; every render opens a fresh copy.
type TemplateSet map[string][]byte

// DefaultTemplateKey is the TemplateSet entry used when a category has no
// template of its own.
const DefaultTemplateKey = "_default"

// Config is the full configuration surface the renderer consumes. It is
// passed in explicitly; the renderer reads no ambient state.
type Config struct {
	// Identifier resolves the record code per row; rows where it is
	// blank are skipped, not failed.
	Identifier field.Spec
	// Fields are the configured placeholder fields.
	Fields []field.Spec
	// Rules configure category classification.
	Rules category.Rules
}

// Options tune one batch run.
type Options struct {
	// Limit caps the number of attempted rows (skipped rows do not
	// count). Zero means no cap.
	Limit int
}

// Renderer drives the whole pipeline: resolve, normalize, classify,
// substitute, collect. One bad row never aborts the batch.
type Renderer struct {
	cfg        Config
	classifier *category.Classifier
	templates  TemplateSet
	logger     *zap.Logger
	now        func() time.Time
}

// NewRenderer creates a batch renderer.
func NewRenderer(cfg Config, templates TemplateSet, logger *zap.Logger) *Renderer {
	return &Renderer{
		cfg:        cfg,
		classifier: category.NewClassifier(cfg.Rules),
		templates:  templates,
		logger:     logger,
		now:        time.Now,
	}
}

// RenderAll renders every row of the table into the archive. The returned
// error is non-nil only for global precondition failures (no templates,
// no rows); per-row problems land in the failure list and the batch
// continues.
func (r *Renderer) RenderAll(table *dataset.Table, opts Options) (*Archive, []Failure, Stats, error) {
	var stats Stats
	if len(r.templates) == 0 {
		return nil, nil, stats, fmt.Errorf("no templates supplied")
	}
	if len(table.Rows()) == 0 {
		return nil, nil, stats, fmt.Errorf("table has no data rows")
	}

	resolver := field.NewResolver(table)
	archive := NewArchive()
	var failures []Failure

	seed := r.seedFields()
	attempted := 0
	for _, row := range table.Rows() {
		if opts.Limit > 0 && attempted >= opts.Limit {
			r.logger.Info("Row cap reached, stopping batch",
				zap.Int("limit", opts.Limit))
			break
		}

		id := strings.TrimSpace(field.ToDisplay(resolver.Value(row, r.cfg.Identifier), field.KindPlain))
		if id == "" {
			// Ragged table end tolerance: counted, not reported.
			stats.Skipped++
			continue
		}
		attempted++

		name, data, err := r.renderRow(resolver, row, id, seed, archive)
		if err != nil {
			stats.Failed++
			failures = append(failures, Failure{
				Identifier: id,
				Row:        row.Number(),
				Reason:     err.Error(),
			})
			r.logger.Warn("Row failed",
				zap.String("identifier", id),
				zap.Int("row", row.Number()),
				zap.Error(err))
			continue
		}

		archive.Add(name, data)
		stats.Succeeded++
		r.logger.Debug("Row rendered",
			zap.String("identifier", id),
			zap.String("entry", name))
	}

	r.logger.Info("Batch finished",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))

	return archive, failures, stats, nil
}

// renderRow does the per-row work. Panics from any stage are recovered
// into an ordinary failure so the batch keeps going.
func (r *Renderer) renderRow(resolver *field.Resolver, row dataset.Row, id string, seed field.Map, archive *Archive) (name string, data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("row processing panicked: %v", p)
		}
	}()

	cat := r.classifier.Classify(resolver, row, id)

	blob, ok := r.templates[cat]
	if !ok {
		blob, ok = r.templates[DefaultTemplateKey]
	}
	if !ok {
		return "", nil, fmt.Errorf("no template for category %q and no default template", cat)
	}

	fields := field.BuildMap(resolver, row, r.cfg.Fields, withIdentity(seed, id))
	if fields["store_name"] == "" {
		fields["store_name"] = id
	}

	doc, err := docx.Open(blob)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open template for category %q: %w", cat, err)
	}
	doc.Substitute(fields)

	data, err = doc.Bytes()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	return r.entryName(archive, id, cat, row.Number()), data, nil
}

// seedFields are the built-in placeholders every row receives before
// configured fields are resolved on top.
func (r *Renderer) seedFields() field.Map {
	now := r.now()
	return field.Map{
		"month_name": now.Month().String(),
		"year":       strconv.Itoa(now.Year()),
	}
}

func withIdentity(seed field.Map, id string) field.Map {
	out := make(field.Map, len(seed)+2)
	for k, v := range seed {
		out[k] = v
	}
	out["store_code"] = id
	out["store_name"] = id
	return out
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// entryName derives the deterministic archive name for a rendered row:
// Letter_<ID>.docx, disambiguated by category and then by row position
// when identifiers repeat.
func (r *Renderer) entryName(archive *Archive, id, cat string, rowNumber int) string {
	base := "Letter_" + sanitizeName(strings.ToUpper(id))
	name := base + ".docx"
	if !archive.Contains(name) {
		return name
	}
	name = base + "_" + sanitizeName(cat) + ".docx"
	if !archive.Contains(name) {
		return name
	}
	return fmt.Sprintf("%s_%d.docx", base, rowNumber)
}

func sanitizeName(s string) string {
	return strings.Trim(unsafeName.ReplaceAllString(s, "-"), "-")
}
