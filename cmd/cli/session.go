package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"bloomy"
	"bloomy/internal/filter"
	"bloomy/internal/probe"
)

const usage = "commands: add <item> | check <item> | remove <item> | count | stats | dump [n] | seed <x> |\n" +
	"          snapshot | union | intersect | similarity | sweep <batch> <batches> | clear | history [n] | exit"

type session struct {
	cfg       config
	active    filter.Filter
	bloom     *bloomy.Filter         // set when the active filter is a plain filter
	counting  *bloomy.CountingFilter // set when the active filter is a counting filter
	snapshot  *bloomy.Filter
	seedIndex int
	history   *History
}

func newSession(cfg config) (*session, error) {
	s := &session{cfg: cfg, history: &History{}}
	if cfg.Counting {
		cf, err := cfg.newCounting()
		if err != nil {
			return nil, err
		}
		s.counting, s.active = cf, cf
	} else {
		bf, err := cfg.newBloom()
		if err != nil {
			return nil, err
		}
		s.bloom, s.active = bf, bf
	}
	return s, nil
}

func (s *session) run() error {
	hist, err := newHistory(s.cfg.History)
	if err != nil {
		fmt.Printf("warning: history disabled: %v\n", err)
		hist, _ = newHistory("")
	}
	s.history = hist

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	for _, cmd := range hist.list(0) {
		line.AppendHistory(cmd)
	}

	kind := "bloom"
	if s.counting != nil {
		kind = "counting"
	}
	fmt.Println("bloomcli - bloom filter shell")
	fmt.Printf("config: kind=%s m=%d k=%d hasher=%s\n", kind, s.active.M(), s.active.K(), s.cfg.Hasher)
	fmt.Println(usage)

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		hist.add(input)

		if quit := s.exec(input); quit {
			break
		}
	}

	if err := hist.save(); err != nil {
		fmt.Printf("warning: failed to save history: %v\n", err)
	}
	return nil
}

// exec runs one command line and reports whether the shell should exit.
func (s *session) exec(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "add":
		if len(parts) != 2 {
			fmt.Println("usage: add <item>")
			return false
		}
		s.active.Add([]byte(parts[1]))
		fmt.Println("ok")
	case "check":
		if len(parts) != 2 {
			fmt.Println("usage: check <item>")
			return false
		}
		if s.active.MayContain([]byte(parts[1])) {
			fmt.Println("possibly present")
		} else {
			fmt.Println("definitely absent")
		}
	case "remove":
		if len(parts) != 2 {
			fmt.Println("usage: remove <item>")
			return false
		}
		if s.counting == nil {
			fmt.Println("remove: only counting filters support removal (start with --counting)")
			return false
		}
		s.counting.Remove([]byte(parts[1]))
		fmt.Println("ok")
	case "count":
		fmt.Printf("approximate=%.2f inserted=%d\n", s.active.ApproximateCount(), s.active.Inserted())
	case "stats":
		inspectFilter(s)
	case "dump":
		limit := 64
		if len(parts) == 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 {
				fmt.Println("dump: n must be a positive integer")
				return false
			}
			limit = n
		}
		dumpFilter(s, limit)
	case "seed":
		if len(parts) != 2 {
			fmt.Println("usage: seed <x>")
			return false
		}
		x, err := strconv.Atoi(parts[1])
		if err != nil || x < 1 {
			fmt.Println("seed: x must be a positive integer")
			return false
		}
		runSeed(s.active, x, &s.seedIndex)
	case "snapshot", "union", "intersect", "similarity":
		s.algebra(cmd)
	case "sweep":
		if len(parts) != 3 {
			fmt.Println("usage: sweep <batch> <batches>")
			return false
		}
		batch, err1 := strconv.Atoi(parts[1])
		batches, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			fmt.Println("sweep: batch and batches must be integers")
			return false
		}
		s.sweep(batch, batches)
	case "clear":
		s.active.Clear()
		fmt.Println("ok")
	case "history":
		n := 0
		if len(parts) == 2 {
			n, _ = strconv.Atoi(parts[1])
		}
		for i, c := range s.history.list(n) {
			fmt.Printf("%4d  %s\n", i+1, c)
		}
	case "help":
		fmt.Println(usage)
	case "exit", "quit":
		return true
	default:
		fmt.Println("unknown command")
	}
	return false
}

func (s *session) algebra(cmd string) {
	if s.bloom == nil {
		fmt.Printf("%s: only plain bloom filters support set algebra\n", cmd)
		return
	}
	if cmd == "snapshot" {
		snap := s.bloom.Clone()
		s.snapshot = snap
		fmt.Printf("snapshot taken (%d bits set)\n", snap.OnesCount())
		return
	}
	if s.snapshot == nil {
		fmt.Printf("%s: take a snapshot first\n", cmd)
		return
	}

	switch cmd {
	case "similarity":
		sim, err := bloomy.Similarity(s.bloom, s.snapshot)
		if err != nil {
			fmt.Printf("similarity error: %v\n", err)
			return
		}
		overlap, err := bloomy.Overlap(s.bloom, s.snapshot)
		if err != nil {
			fmt.Printf("overlap error: %v\n", err)
			return
		}
		fmt.Printf("jaccard=%.4f overlap=%.4f\n", sim, overlap)
	case "union", "intersect":
		var (
			next *bloomy.Filter
			err  error
		)
		if cmd == "union" {
			next, err = s.bloom.Union(s.snapshot)
		} else {
			next, err = s.bloom.Intersect(s.snapshot)
		}
		if err != nil {
			fmt.Printf("%s error: %v\n", cmd, err)
			return
		}
		s.bloom, s.active = next, next
		fmt.Printf("ok (%d bits set, ~%.0f items)\n", next.OnesCount(), next.ApproximateCount())
	}
}

// sweep measures false positive rates on a fresh filter with the session's
// configuration, leaving the active filter untouched.
func (s *session) sweep(batch, batches int) {
	var (
		f   filter.Filter
		err error
	)
	if s.counting != nil {
		f, err = s.cfg.newCounting()
	} else {
		f, err = s.cfg.newBloom()
	}
	if err != nil {
		fmt.Printf("sweep error: %v\n", err)
		return
	}

	r, err := probe.Sweep(f, batch, batches, probe.Keys("probe", 10000))
	if err != nil {
		fmt.Printf("sweep error: %v\n", err)
		return
	}
	r.WriteTable(os.Stdout)
}
