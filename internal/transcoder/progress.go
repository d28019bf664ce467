package transcoder

import (
	"strconv"
	"strings"
)

// progressParser converts ffmpeg "-progress pipe:1" key=value frames
// into completion percentages against a known output duration.
//
// ffmpeg's out_time_us and out_time_ms fields both carry microseconds
// (out_time_ms is a long-standing misnomer in ffmpeg itself).
type progressParser struct {
	totalSeconds float64
	onPercent    func(percent float64)
}

func newProgressParser(totalSeconds float64, onPercent func(float64)) *progressParser {
	return &progressParser{totalSeconds: totalSeconds, onPercent: onPercent}
}

// Line consumes one progress line.
func (p *progressParser) Line(line string) {
	if p.totalSeconds <= 0 || p.onPercent == nil {
		return
	}

	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}

	switch key {
	case "out_time_us", "out_time_ms":
		micros, err := strconv.ParseInt(value, 10, 64)
		if err != nil || micros < 0 {
			return
		}
		p.onPercent(float64(micros) / 1e6 / p.totalSeconds * 100)
	case "progress":
		if value == "end" {
			p.onPercent(100)
		}
	}
}
