// Package pipeline wires the extraction, aggregation, identification and
// matching stages together and renders their outputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ppiankov/peptidemine/internal/aggregate"
	"github.com/ppiankov/peptidemine/internal/cache"
	"github.com/ppiankov/peptidemine/internal/classify"
	"github.com/ppiankov/peptidemine/internal/corpus"
	"github.com/ppiankov/peptidemine/internal/extract"
	"github.com/ppiankov/peptidemine/internal/fasta"
	"github.com/ppiankov/peptidemine/internal/ident"
	"github.com/ppiankov/peptidemine/internal/llm"
	"github.com/ppiankov/peptidemine/internal/match"
	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/reference"
	"github.com/ppiankov/peptidemine/internal/stats"
	"github.com/ppiankov/peptidemine/internal/table"
	"github.com/ppiankov/peptidemine/internal/validate"
	"github.com/ppiankov/peptidemine/internal/worker"
)

// ErrInvalidDataset is returned when records fail critical validation checks
var ErrInvalidDataset = errors.New("dataset failed validation")

// Pipeline orchestrates the stages of a run
type Pipeline struct {
	config     *model.Config
	logger     *log.Logger
	extractor  *extract.SequenceExtractor
	scanner    *extract.KeywordScanner
	classifier *classify.Classifier
	validator  *validate.Validator
	fetcher    *reference.Fetcher
	summarizer *llm.Summarizer // nil when disabled
	renderer   *Renderer
	run        model.RunInfo
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *log.Logger, version string) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.Identifier.Prefix))
		if err != nil {
			logger.Warn("LLM summaries disabled", "err", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		config:     cfg,
		logger:     logger,
		extractor:  extract.NewSequenceExtractor(cfg.Corpus.StripMarkup),
		scanner:    extract.NewKeywordScanner(extract.DefaultMechanismKeywords),
		classifier: classify.NewClassifier(classify.DefaultRules),
		validator:  validate.NewValidator(true),
		fetcher:    reference.NewFetcher(cfg.Reference, logger),
		summarizer: summarizer,
		renderer:   NewRenderer(),
		run: model.RunInfo{
			RunID:     uuid.NewString(),
			StartedAt: time.Now().UTC(),
			Version:   version,
		},
	}
}

// Run identifies this pipeline's run in exports
func (p *Pipeline) Run() model.RunInfo {
	return p.run
}

// Renderer returns the output renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ExtractResult holds the output of a corpus extraction
type ExtractResult struct {
	Mentions []model.RawMention
	Stats    model.CorpusStats
}

// Extract scans every referenced document for candidate peptide sequences
func (p *Pipeline) Extract(refs []corpus.DocumentRef) (*ExtractResult, error) {
	tally := extract.NewTally()
	mentions, err := p.extractor.ExtractCorpus(refs, tally)
	if err != nil {
		return nil, err
	}

	s := tally.Stats()
	for _, id := range s.MissingDocuments {
		p.logger.Warn("document not found", "id", id)
	}
	p.logger.Info("extraction finished",
		"run", p.run.RunID,
		"documents", s.TotalDocuments,
		"matched", s.MatchedDocuments,
		"mentions", len(mentions))

	return &ExtractResult{Mentions: mentions, Stats: s}, nil
}

// KeywordResult holds the output of a keyword pre-scan
type KeywordResult struct {
	Hits  []model.KeywordHit
	Tally *extract.KeywordTally
}

// Keywords runs the mechanism keyword pre-scan over the referenced documents
func (p *Pipeline) Keywords(refs []corpus.DocumentRef) (*KeywordResult, error) {
	tally := extract.NewKeywordTally()
	hits, err := p.scanner.ScanCorpus(refs, tally)
	if err != nil {
		return nil, err
	}
	for _, id := range tally.Missing {
		p.logger.Warn("document not found", "id", id)
	}
	return &KeywordResult{Hits: hits, Tally: tally}, nil
}

// LoadMetadata reads the mechanism table using the configured column names
func (p *Pipeline) LoadMetadata(path string) ([]model.MetadataRow, error) {
	t, err := table.Load(path)
	if err != nil {
		return nil, err
	}
	return aggregate.RowsFromTable(t, p.config.Metadata.Columns)
}

// LoadCatalog reads an identifier catalog. An empty path yields no catalog.
func (p *Pipeline) LoadCatalog(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	t, err := table.Load(path)
	if err != nil {
		return nil, err
	}
	catalog, ok, err := ident.CatalogFromTable(t)
	if err != nil {
		return nil, err
	}
	if !ok {
		p.logger.Warn("identifier catalog has no id column, minting all identifiers", "path", path)
	}
	return catalog, nil
}

// AnnotateMentions joins extracted mentions with metadata rows by sequence.
// Repeated sequences in rows merge their mechanism phrases; the first non-empty class wins.
func AnnotateMentions(mentions []model.RawMention, rows []model.MetadataRow) []model.MetadataRow {
	annotations := make(map[string]model.MetadataRow, len(rows))
	for _, r := range rows {
		seq := strings.TrimSpace(r.Sequence)
		a := annotations[seq]
		if m := strings.TrimSpace(r.Mechanism); m != "" {
			if a.Mechanism == "" {
				a.Mechanism = m
			} else {
				a.Mechanism += "," + m
			}
		}
		if a.Class == "" {
			a.Class = strings.TrimSpace(r.Class)
		}
		annotations[seq] = a
	}
	return aggregate.FromMentions(mentions, annotations)
}

// BuildResult holds canonical, identified records
type BuildResult struct {
	Records []model.AggregatedRecord
	Issues  []validate.Issue
}

// Build aggregates rows, assigns identifiers and validates the result
func (p *Pipeline) Build(rows []model.MetadataRow, catalog map[string]string) (*BuildResult, error) {
	records := aggregate.Aggregate(rows, p.classifier.Canonical)

	assigner := ident.NewAssigner(p.config.Identifier.Prefix, p.config.Identifier.Width, catalog)
	records = assigner.Assign(records)

	issues := p.validator.Validate(records)
	for _, is := range issues {
		if is.Severity == validate.SeverityWarning {
			p.logger.Warn(is.Message, "code", is.Code, "id", is.ID, "sequence", is.Sequence)
		}
	}
	if critical := validate.Critical(issues); len(critical) > 0 {
		for _, is := range critical {
			p.logger.Error(is.Message, "code", is.Code, "id", is.ID, "sequence", is.Sequence)
		}
		return nil, fmt.Errorf("%w: %d critical issue(s), first: %s", ErrInvalidDataset, len(critical), critical[0])
	}

	p.logger.Info("records built", "run", p.run.RunID, "rows", len(rows), "records", len(records))
	return &BuildResult{Records: records, Issues: issues}, nil
}

// LoadRecordsFASTA reads canonical records from a FASTA file written by WriteRecordsFASTA
func (p *Pipeline) LoadRecordsFASTA(path string) ([]model.AggregatedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := fasta.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read records %s: %w", path, err)
	}

	records := make([]model.AggregatedRecord, 0, len(parsed))
	for i, rec := range parsed {
		id, fields, ok := fasta.ParseHeader(rec.Header)
		if !ok {
			return nil, fmt.Errorf("read records %s: record %d has no identifier", path, i+1)
		}
		records = append(records, model.AggregatedRecord{
			ID:               id,
			Sequence:         rec.Sequence,
			SourceIDs:        fields["source_ids"],
			OrganismClass:    fields["class"],
			PrimaryMechanism: fields["mechanism"],
			Subtype:          fields["subtype"],
		})
	}
	return records, nil
}

// MatchResult holds annotated records and the reference they were matched against
type MatchResult struct {
	Records   []model.AnnotatedRecord
	Reference *reference.Database
}

// Match cross-references records against the configured reference database
func (p *Pipeline) Match(ctx context.Context, records []model.AggregatedRecord) (*MatchResult, error) {
	db, err := reference.Resolve(ctx, p.config.Reference.Source, p.fetcher, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("reference loaded", "source", db.Source, "entries", len(db.Entries))

	var matcher match.SequenceMatcher = match.NewMatcher(db.Entries)
	if p.config.Cache.Enabled {
		c := cache.NewLayeredCache(p.config.Cache.MemoryTTL, p.config.Cache.Dir, p.config.Cache.DiskTTL)
		matcher = match.NewCachedMatcher(matcher, c, db.Digest, p.config.Cache.DiskTTL, p.logger)
	}

	sequences := make([]string, len(records))
	for i, r := range records {
		sequences[i] = r.Sequence
	}

	batch := worker.NewBatchMatcher(matcher, p.config.Concurrency.Workers, p.logger)
	results, err := batch.MatchAll(ctx, sequences)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	annotated := make([]model.AnnotatedRecord, len(records))
	for i, r := range records {
		annotated[i] = model.AnnotatedRecord{AggregatedRecord: r, Match: results[i]}
	}

	for _, c := range stats.MatchDistribution(results) {
		p.logger.Info("match summary", "type", c.Key, "count", c.Count)
	}
	return &MatchResult{Records: annotated, Reference: db}, nil
}

// Summarize asks the configured LLM for a narrative overview. results may be nil.
// It returns nil when summaries are disabled.
func (p *Pipeline) Summarize(ctx context.Context, records []model.AggregatedRecord, results []model.ReferenceMatchResult) *model.DatasetSummary {
	if p.summarizer == nil || !p.summarizer.IsEnabled() {
		return nil
	}

	docs := make(map[string]bool)
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		for _, s := range aggregate.SplitJoined(r.SourceIDs) {
			docs[s] = true
		}
	}

	facts := llm.DatasetFacts{
		Records:    len(records),
		Documents:  len(docs),
		Mechanisms: stats.MechanismDistribution(records),
	}
	if len(results) > 0 {
		facts.Matches = stats.MatchDistribution(results)
	}

	summary, err := p.summarizer.GenerateSummary(ctx, facts, ids)
	if err != nil {
		p.logger.Warn("LLM summary failed", "err", err)
		return nil
	}
	if summary != nil && !summary.Enabled {
		for _, w := range summary.Warnings {
			p.logger.Warn(w)
		}
	}
	return summary
}

// OutputPaths names the files written for one export set
type OutputPaths struct {
	CSV   string
	FASTA string
	JSON  string
}

func (p *Pipeline) paths(dir, suffix string) OutputPaths {
	stem := filepath.Join(dir, p.config.Output.Basename+suffix)
	return OutputPaths{CSV: stem + ".csv", FASTA: stem + ".fasta", JSON: stem + ".json"}
}

// ExportRecords writes canonical records as CSV, FASTA and JSON into dir
func (p *Pipeline) ExportRecords(dir string, records []model.AggregatedRecord) (OutputPaths, error) {
	out := p.paths(dir, "")
	if err := p.renderer.WriteRecordsCSV(out.CSV, records); err != nil {
		return out, fmt.Errorf("render CSV: %w", err)
	}
	if err := p.renderer.WriteRecordsFASTA(out.FASTA, records); err != nil {
		return out, fmt.Errorf("render FASTA: %w", err)
	}
	if err := p.renderer.WriteRecordsJSON(out.JSON, records); err != nil {
		return out, fmt.Errorf("render JSON: %w", err)
	}
	return out, nil
}

// ExportAnnotated writes annotated records as CSV, FASTA and JSON into dir
func (p *Pipeline) ExportAnnotated(dir string, records []model.AnnotatedRecord) (OutputPaths, error) {
	out := p.paths(dir, "_annotated")
	if err := p.renderer.WriteAnnotatedCSV(out.CSV, records); err != nil {
		return out, fmt.Errorf("render annotated CSV: %w", err)
	}
	if err := p.renderer.WriteAnnotatedFASTA(out.FASTA, records); err != nil {
		return out, fmt.Errorf("render annotated FASTA: %w", err)
	}
	if err := p.renderer.WriteAnnotatedJSON(out.JSON, records); err != nil {
		return out, fmt.Errorf("render annotated JSON: %w", err)
	}
	return out, nil
}

// ExportSummary writes an enabled LLM summary next to the record exports.
// It returns "" when there is nothing to write.
func (p *Pipeline) ExportSummary(dir string, summary *model.DatasetSummary) (string, error) {
	md := llm.RenderMarkdown(summary)
	if md == "" {
		return "", nil
	}
	md += fmt.Sprintf("\n---\n_Run %s_\n", p.run.RunID)

	path := filepath.Join(dir, p.config.Output.Basename+".llm.md")
	if err := p.renderer.WriteText(path, md); err != nil {
		return "", fmt.Errorf("render LLM summary: %w", err)
	}
	return path, nil
}

// MatchResults extracts the bare match results from annotated records
func MatchResults(records []model.AnnotatedRecord) []model.ReferenceMatchResult {
	out := make([]model.ReferenceMatchResult, len(records))
	for i, r := range records {
		out[i] = r.Match
	}
	return out
}
