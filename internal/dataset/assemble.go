package dataset

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/ChizhovVadim/nnuedata/internal/config"
	"github.com/ChizhovVadim/nnuedata/internal/sampler"
	"github.com/ChizhovVadim/nnuedata/internal/score"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize        = 1024
	progressInterval = 1_000_000
)

type Dataset struct {
	Training   []Example
	Validation []Example
}

func (d *Dataset) Size() int {
	return len(d.Training) + len(d.Validation)
}

// Report holds the counters of one ingestion pass.
type Report struct {
	Lines        int
	Accepted     int
	Malformed    int
	ScoreErrors  int
	Unclassified int
	Buckets      []sampler.BucketStats
	Sampled      int
	Training     int
	Validation   int
	Elapsed      time.Duration
}

// Skipped is the number of records rejected by parsing.
func (r *Report) Skipped() int {
	return r.Malformed + r.ScoreErrors
}

type Assembler struct {
	config config.Config
}

func NewAssembler(cfg config.Config) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{config: cfg}, nil
}

// oversizedLine stands in for a line longer than maxLineSize.
const oversizedLine = "\x00"

type lineBatch struct {
	seq   int
	lines []string
}

type recordKind int

const (
	recordOk recordKind = iota
	recordMalformed
	recordBadScore
)

type parsedBatch struct {
	seq     int
	kinds   []recordKind
	samples []Example
}

// Assemble reads "<position>,<score>" lines after a header, samples them into the
// configured buckets and returns the shuffled train/validation split.
// Bad records are counted, never fatal. A cancelled pass returns no dataset.
func (a *Assembler) Assemble(ctx context.Context, r io.Reader) (*Dataset, *Report, error) {
	var start = time.Now()
	var rnd = rand.New(rand.NewSource(a.config.Seed))
	var smp = sampler.New[Example](a.config.SamplerBuckets(), rnd)
	var report = &Report{}

	g, gctx := errgroup.WithContext(ctx)

	var batches = make(chan lineBatch, 16)
	var results = make(chan parsedBatch, 16)

	g.Go(func() error {
		defer close(batches)
		return readBatches(gctx, r, batches)
	})

	var wg = &sync.WaitGroup{}
	for i := 0; i < a.config.Threads; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return parseBatches(gctx, batches, results, a.config.Normalizer())
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		return collect(results, smp, report, start)
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var examples = smp.Finalize()
	shuffle(rnd, examples)
	var validationSize = int(float64(len(examples)) * a.config.ValidationFraction)
	var trainingSize = len(examples) - validationSize
	var dataset = &Dataset{
		Training:   examples[:trainingSize:trainingSize],
		Validation: examples[trainingSize:],
	}

	report.Unclassified = smp.Unclassified()
	report.Buckets = smp.Stats()
	report.Sampled = len(examples)
	report.Training = len(dataset.Training)
	report.Validation = len(dataset.Validation)
	report.Elapsed = time.Since(start)
	return dataset, report, nil
}

func readBatches(ctx context.Context, r io.Reader, batches chan<- lineBatch) error {
	var reader = NewLineReader(r)
	header, _, err := reader.Next()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	log.Println("header", header)

	var seq int
	var lines = make([]string, 0, batchSize)
	var send = func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batches <- lineBatch{seq: seq, lines: lines}:
		}
		seq++
		lines = make([]string, 0, batchSize)
		return nil
	}
	for {
		line, tooLong, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if tooLong {
			line = oversizedLine
		}
		lines = append(lines, line)
		if len(lines) == batchSize {
			if err := send(); err != nil {
				return err
			}
		}
	}
	if len(lines) != 0 {
		return send()
	}
	return nil
}

func parseBatches(
	ctx context.Context,
	batches <-chan lineBatch,
	results chan<- parsedBatch,
	normalizer score.Normalizer,
) error {
	for batch := range batches {
		var parsed = parsedBatch{
			seq:     batch.seq,
			kinds:   make([]recordKind, 0, len(batch.lines)),
			samples: make([]Example, 0, len(batch.lines)),
		}
		for _, line := range batch.lines {
			if isBlank(line) {
				continue
			}
			if line == oversizedLine {
				parsed.kinds = append(parsed.kinds, recordMalformed)
				continue
			}
			var example, err = ParseRecord(line, normalizer)
			switch {
			case err == nil:
				parsed.kinds = append(parsed.kinds, recordOk)
				parsed.samples = append(parsed.samples, example)
			case errors.Is(err, score.ErrScoreParse):
				parsed.kinds = append(parsed.kinds, recordBadScore)
			default:
				parsed.kinds = append(parsed.kinds, recordMalformed)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- parsed:
		}
	}
	return nil
}

// collect is the only writer of the sampler. Batches are consumed in input order
// so a given seed gives the same sample for any number of parser threads.
func collect(
	results <-chan parsedBatch,
	smp *sampler.Sampler[Example],
	report *Report,
	start time.Time,
) error {
	var pending = make(map[int]parsedBatch)
	var next int
	for batch := range results {
		pending[batch.seq] = batch
		for {
			var ready, found = pending[next]
			if !found {
				break
			}
			delete(pending, next)
			next++
			consume(ready, smp, report, start)
		}
	}
	if len(pending) != 0 {
		return errors.New("dataset pass ended with unprocessed batches")
	}
	return nil
}

func consume(batch parsedBatch, smp *sampler.Sampler[Example], report *Report, start time.Time) {
	var sampleIndex int
	for _, kind := range batch.kinds {
		report.Lines++
		switch kind {
		case recordOk:
			var example = batch.samples[sampleIndex]
			sampleIndex++
			report.Accepted++
			smp.Add(example.Score, example)
		case recordBadScore:
			report.ScoreErrors++
		case recordMalformed:
			report.Malformed++
		}
		if report.Lines%progressInterval == 0 {
			log.Println("processed",
				"lines", report.Lines,
				"elapsed", time.Since(start).Round(time.Millisecond))
		}
	}
}

func isBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

func shuffle(rnd *rand.Rand, examples []Example) {
	rnd.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

// LogReport prints the pass summary and the per-bucket sampling results.
func LogReport(report *Report) {
	log.Println("assemble",
		"lines", report.Lines,
		"accepted", report.Accepted,
		"skipped", report.Skipped(),
		"malformed", report.Malformed,
		"scoreErrors", report.ScoreErrors,
		"unclassified", report.Unclassified,
		"elapsed", report.Elapsed.Round(time.Millisecond))
	for _, b := range report.Buckets {
		log.Printf("bucket [%+6d, %+6d): %v sampled from %v seen (target: %v)",
			b.Low, b.High, b.Sampled, b.Observed, b.Capacity)
	}
	log.Println("dataset",
		"sampled", report.Sampled,
		"training", report.Training,
		"validation", report.Validation)
}
