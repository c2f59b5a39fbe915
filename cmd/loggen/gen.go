package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// generator produces lines in the shape loguru writes with serialize=True.
type generator struct {
	rnd       *rand.Rand
	malformed float64
}

func newGenerator(rnd *rand.Rand, malformed float64) *generator {
	return &generator{rnd: rnd, malformed: malformed}
}

type loguruLine struct {
	Text   string       `json:"text"`
	Record loguruRecord `json:"record"`
}

type loguruRecord struct {
	Elapsed  map[string]any `json:"elapsed"`
	Extra    map[string]any `json:"extra"`
	Function string         `json:"function"`
	Level    loguruLevel    `json:"level"`
	Line     int            `json:"line"`
	Message  string         `json:"message"`
	Module   string         `json:"module"`
	Name     string         `json:"name"`
	Time     loguruTime     `json:"time"`
}

type loguruLevel struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
	No   int    `json:"no"`
}

type loguruTime struct {
	Repr      string  `json:"repr"`
	Timestamp float64 `json:"timestamp"`
}

var levels = []struct {
	weight float64
	level  loguruLevel
}{
	{0.55, loguruLevel{"ℹ️", "INFO", 20}},
	{0.75, loguruLevel{"🐞", "DEBUG", 10}},
	{0.88, loguruLevel{"⚠️", "WARNING", 30}},
	{0.97, loguruLevel{"❌", "ERROR", 40}},
	{0.99, loguruLevel{"☠️", "CRITICAL", 50}},
	{1.00, loguruLevel{"✔️", "SUCCESS", 25}},
}

var messages = []string{
	"receipt printed",
	"shift opened",
	"shift closed",
	"fiscal server timeout",
	"payment terminal connected",
	"receipt printer offline",
	"cash drawer opened",
	"z-report generated",
	"sync with fiscal server finished",
	"invalid barcode scanned",
}

var cashiers = []string{"Olena", "Taras", "Iryna", "Bohdan", "Mykola"}

func (g *generator) pick(xs []string) string { return xs[g.rnd.Intn(len(xs))] }

func (g *generator) level() loguruLevel {
	r := g.rnd.Float64()
	for _, l := range levels {
		if r < l.weight {
			return l.level
		}
	}
	return levels[0].level
}

func (g *generator) extra() map[string]any {
	e := map[string]any{
		"request_id": uuid.NewString(),
		"device":     fmt.Sprintf("kasa-%02d", g.rnd.Intn(20)+1),
	}
	switch g.rnd.Intn(4) {
	case 0:
		e["cashier"] = g.pick(cashiers)
	case 1:
		e["amount"] = float64(g.rnd.Intn(100000)) / 100
		e["currency"] = "UAH"
	case 2:
		e["retries"] = []int{1, 2, 3}[:g.rnd.Intn(3)+1]
	}
	return e
}

// line returns one serialized record, or a broken one with probability
// g.malformed.
func (g *generator) line(now time.Time) string {
	rec := loguruLine{Record: loguruRecord{
		Elapsed:  map[string]any{"repr": "0:00:01.000000", "seconds": 1.0},
		Extra:    g.extra(),
		Function: "handle",
		Level:    g.level(),
		Line:     g.rnd.Intn(400) + 1,
		Message:  g.pick(messages),
		Module:   "kasa",
		Name:     "kasa.service",
		Time: loguruTime{
			Repr:      now.Format("2006-01-02 15:04:05.000000-07:00"),
			Timestamp: float64(now.UnixMicro()) / 1e6,
		},
	}}
	b, _ := json.Marshal(rec)
	s := string(b)
	if g.rnd.Float64() < g.malformed {
		// cut the line short like a crash mid-write would
		return s[:g.rnd.Intn(len(s)-1)+1]
	}
	return s
}
