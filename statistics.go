package babble

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Statistics counts what went in and what came out of a brain.
type Statistics struct {
	Steps      int // successful steps
	Characters int // character inputs
	Ticks      int // tick inputs
	Rejected   int // inputs that could not be encoded
	Said       int // character outputs
	Silent     int // Nothing outputs

	Spoken map[rune]int // how often each character was said
}

func makeStatistics() Statistics {
	return Statistics{
		Spoken: make(map[rune]int),
	}
}

func (s *Statistics) update(in EventIn, out EventOut) {
	s.Steps++
	switch in.Kind {
	case ChatCharacter:
		s.Characters++
	case TimeTick:
		s.Ticks++
	}
	if out.IsNothing() {
		s.Silent++
		return
	}
	s.Said++
	s.Spoken[out.Char]++
}

func (s *Statistics) reject() { s.Rejected++ }

// Stats returns a copy of the statistics.
func (s *Statistics) Stats() Statistics {
	retVal := *s
	retVal.Spoken = make(map[rune]int, len(s.Spoken))
	for k, v := range s.Spoken {
		retVal.Spoken[k] = v
	}
	return retVal
}

func (s Statistics) String() string {
	return fmt.Sprintf("steps=%d characters=%d ticks=%d rejected=%d said=%d silent=%d",
		s.Steps, s.Characters, s.Ticks, s.Rejected, s.Said, s.Silent)
}

// Dump writes the statistics as CSV: a header, the totals, and then one row per character said.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"steps", "characters", "ticks", "rejected", "said", "silent"}); err != nil {
		return err
	}
	totals := []int{s.Steps, s.Characters, s.Ticks, s.Rejected, s.Said, s.Silent}
	record := make([]string, len(totals))
	for i, v := range totals {
		record[i] = strconv.Itoa(v)
	}
	if err := w.Write(record); err != nil {
		return err
	}

	chars := make([]int, 0, len(s.Spoken))
	for c := range s.Spoken {
		chars = append(chars, int(c))
	}
	sort.Ints(chars)
	records := [][]string{{"code", "count"}}
	for _, c := range chars {
		records = append(records, []string{strconv.Itoa(c), strconv.Itoa(s.Spoken[rune(c)])})
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
