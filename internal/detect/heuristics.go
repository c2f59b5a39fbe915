// Package detect guesses what kind of log a file holds, so a file that is not
// loguru output can be flagged instead of showing up as a wall of errors.
package detect

import (
	"regexp"
	"strings"

	"github.com/buger/jsonparser"

	"kasalog/internal/model"
)

type Format string

const (
	FormatLoguru  Format = "loguru"
	FormatJSON    Format = "json_lines"
	FormatLogfmt  Format = "logfmt"
	FormatApache  Format = "apache"
	FormatSyslog  Format = "syslog"
	FormatUnknown Format = "unknown"
)

var (
	reApacheCombined = regexp.MustCompile(`^\S+ \S+ \S+ \[[^\]]+\] "[A-Z]+ [^\s]+ [^"]+" \d{3} \d+ "[^"]*" "[^"]*"`)
	reSyslogRFC5424  = regexp.MustCompile(`^<\d+>1 \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	reLogfmtKV       = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*=`)
)

// SampleSize is how many non-blank lines Heuristics looks at.
const SampleSize = 20

type Guess struct {
	Format     Format
	Confidence float64
}

// Loguru reports whether the guess is loguru serialized output.
func (g Guess) Loguru() bool { return g.Format == FormatLoguru }

// Quick offline heuristics on a small sample. Lines past SampleSize non-blank
// ones are ignored.
func Heuristics(sample []string) Guess {
	lines := 0
	loguruCount := 0
	jsonCount := 0
	logfmtCount := 0
	apacheCount := 0
	syslogCount := 0
	for _, l := range sample {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		if lines == SampleSize {
			break
		}
		lines++
		if strings.HasPrefix(s, "{") {
			if isLoguru([]byte(s)) {
				loguruCount++
			} else if strings.HasSuffix(s, "}") {
				jsonCount++
			}
			continue
		}
		if reApacheCombined.MatchString(s) {
			apacheCount++
		} else if reSyslogRFC5424.MatchString(s) {
			syslogCount++
		} else if reLogfmtKV.MatchString(s) {
			logfmtCount++
		}
	}
	if lines == 0 {
		// nothing to contradict loguru
		return Guess{Format: FormatLoguru, Confidence: 0}
	}
	// Choose highest; loguru wins ties since that is what we read.
	best, hits := FormatLoguru, loguruCount
	for _, c := range []struct {
		f Format
		n int
	}{
		{FormatJSON, jsonCount},
		{FormatApache, apacheCount},
		{FormatSyslog, syslogCount},
		{FormatLogfmt, logfmtCount},
	} {
		if c.n > hits {
			best, hits = c.f, c.n
		}
	}
	if hits == 0 {
		return Guess{Format: FormatUnknown, Confidence: 0}
	}
	return Guess{Format: best, Confidence: conf(lines, hits)}
}

// Records runs Heuristics over the raw lines of records.
func Records(records []model.LogRecord) Guess {
	n := len(records)
	if n > SampleSize {
		n = SampleSize
	}
	sample := make([]string, n)
	for i := range sample {
		sample[i] = records[i].Raw
	}
	return Heuristics(sample)
}

// isLoguru checks for record.level.name only, so a line cut short after the
// level still counts.
func isLoguru(line []byte) bool {
	_, err := jsonparser.GetString(line, "record", "level", "name")
	return err == nil
}

func conf(lines, hits int) float64 {
	if lines == 0 {
		return 0
	}
	return float64(hits) / float64(lines)
}
