package match

import "time"

// Record is one scored comparison between two distinct records, emitted in
// discovery order. Text and class carry the ASCII-stripped originals (case
// preserved); coordinates are carried as normalized strings, "0" when the
// record has no location, because the report renders them verbatim.
type Record struct {
	SurrogateKey   string
	LeftObjectID   int64
	RightObjectID  int64
	LeftText       string
	RightText      string
	LeftClass      string
	RightClass     string
	LeftPK         string
	RightPK        string
	LeftX          string
	LeftY          string
	RightX         string
	RightY         string
	Ratio          int
	PartialRatio   int
	TokenSortRatio int
	TokenSetRatio  int
}

// Summary reports what a run did.
type Summary struct {
	InputRecords       int
	RecordsProcessed   int
	ComparisonsMade    int
	ComparisonsSkipped int
	Duration           time.Duration
}

// Options configure a run.
type Options struct {
	// Radius is the search distance in the source's coordinate units.
	Radius float64

	// RadiusLabel is the configured distance string, used in log lines.
	RadiusLabel string

	// MaxRecords caps how many focal records a run processes. Zero means
	// no cap. Reaching the cap is a clean early exit, not a failure.
	MaxRecords int
}

// Sink accepts match records as the engine produces them, so results
// stream out instead of accumulating in memory.
type Sink interface {
	Write(rec Record) error
}

// Collector is an in-memory Sink for tests and small runs.
type Collector struct {
	Records []Record
}

// Write appends rec to the collected records.
func (c *Collector) Write(rec Record) error {
	c.Records = append(c.Records, rec)
	return nil
}
