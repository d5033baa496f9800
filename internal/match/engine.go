package match

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spatial-dedupe/internal/fuzz"
	"github.com/spatial-dedupe/internal/normalize"
	"github.com/spatial-dedupe/internal/runlog"
	"github.com/spatial-dedupe/internal/source"
)

// Engine drives the pairwise match pipeline. For every record in the
// source it queries the spatial neighborhood, drops the record itself and
// any pair already compared earlier in the run, scores what remains with
// the four fuzzy ratios and streams one Record per scored pair to the
// sink. Records with no coordinates are searched from the origin.
type Engine struct {
	src  source.Source
	log  *runlog.Logger
	opts Options
}

// NewEngine returns an engine over src that logs through log.
func NewEngine(src source.Source, log *runlog.Logger, opts Options) *Engine {
	return &Engine{src: src, log: log, opts: opts}
}

// Run processes the source record by record and returns the run summary.
// Each unordered pair of distinct records is scored at most once, on
// whichever side is visited first. Errors from the source or the sink
// abort the run.
func (e *Engine) Run(ctx context.Context, sink Sink) (*Summary, error) {
	start := time.Now()

	total, err := e.src.Count(ctx)
	if err != nil {
		return nil, err
	}
	e.log.Infof("%d input records to process", total)
	e.log.Infof("search distance is %s", e.opts.RadiusLabel)

	summary := &Summary{InputRecords: total}
	seen := NewPairSet()

	err = e.src.Iterate(ctx, func(left source.Record) error {
		leftText := normalize.StripASCII(left.Text)
		leftClass := normalize.StripASCII(left.Class)
		leftX := normalize.CoordString(left.X)
		leftY := normalize.CoordString(left.Y)
		e.log.Debugf("read object %d %q at (%s, %s)", left.ObjectID, leftText, leftX, leftY)

		x, y := originIfMissing(left.X, left.Y)
		neighbors, err := e.src.Near(ctx, x, y, e.opts.Radius)
		if err != nil {
			return err
		}
		e.log.Debugf("%d records within %s of object %d", len(neighbors), e.opts.RadiusLabel, left.ObjectID)

		leftFolded := strings.ToLower(leftText)
		for _, right := range neighbors {
			if right.ObjectID == left.ObjectID {
				continue
			}
			if seen.Contains(left.ObjectID, right.ObjectID) {
				summary.ComparisonsSkipped++
				e.log.Debugf("pair %d and %d already compared, skipping", left.ObjectID, right.ObjectID)
				continue
			}

			rightText := normalize.StripASCII(right.Text)
			rightFolded := strings.ToLower(rightText)

			rec := Record{
				SurrogateKey:   uuid.NewString(),
				LeftObjectID:   left.ObjectID,
				RightObjectID:  right.ObjectID,
				LeftText:       leftText,
				RightText:      rightText,
				LeftClass:      leftClass,
				RightClass:     normalize.StripASCII(right.Class),
				LeftPK:         left.PK,
				RightPK:        right.PK,
				LeftX:          leftX,
				LeftY:          leftY,
				RightX:         normalize.CoordString(right.X),
				RightY:         normalize.CoordString(right.Y),
				Ratio:          fuzz.Ratio(leftFolded, rightFolded),
				PartialRatio:   fuzz.PartialRatio(leftFolded, rightFolded),
				TokenSortRatio: fuzz.TokenSortRatio(leftFolded, rightFolded),
				TokenSetRatio:  fuzz.TokenSetRatio(leftFolded, rightFolded),
			}
			if err := sink.Write(rec); err != nil {
				return err
			}
			seen.Mark(left.ObjectID, right.ObjectID)
			summary.ComparisonsMade++
		}

		summary.RecordsProcessed++
		if total > 0 {
			e.log.Infof("%.3f%% complete", float64(summary.RecordsProcessed)/float64(total)*100)
		}
		if e.opts.MaxRecords > 0 && summary.RecordsProcessed >= e.opts.MaxRecords {
			e.log.Infof("processing cap of %d records reached", e.opts.MaxRecords)
			return source.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	e.log.Infof("comparisons made: %d", summary.ComparisonsMade)
	e.log.Infof("comparisons skipped: %d", summary.ComparisonsSkipped)
	e.log.Infof("run finished in %s", summary.Duration)
	return summary, nil
}

// originIfMissing substitutes zero for either missing coordinate, so
// unlocated records are searched from the origin.
func originIfMissing(x, y *float64) (float64, float64) {
	var px, py float64
	if x != nil {
		px = *x
	}
	if y != nil {
		py = *y
	}
	return px, py
}
