// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

/* ------------ single-line progress across a whole upload run ------------ */

type Progress struct {
	out        io.Writer
	totalFiles int
	fileIdx    int
	fileName   string
	totalBytes int64
	doneBytes  int64
	spinIdx    int
	lastTick   time.Time
}

var spinner = []rune{'|', '/', '-', '\\'}

func NewProgress(out io.Writer, totalFiles int) *Progress {
	return &Progress{out: out, totalFiles: totalFiles}
}

// FileHook returns the hook for the next file of the run.
func (p *Progress) FileHook(name string) *config.ProgressHook {
	p.fileIdx++
	p.fileName = name
	p.doneBytes = 0
	p.totalBytes = 0

	var prevWritten int64
	return &config.ProgressHook{
		OnStart: func(_ string, total int64) {
			p.totalBytes = total
			p.render(true)
		},
		OnProgress: func(_ string, written, _ int64) {
			if delta := written - prevWritten; delta > 0 {
				p.doneBytes += delta
				p.render(false)
			}
			prevWritten = written
		},
		OnDone: func(_ string, total int64, took time.Duration) {
			if total > prevWritten {
				p.doneBytes += total - prevWritten
			}
			p.render(true)
			fmt.Fprintf(p.out, " in %s\n", took.Truncate(100*time.Millisecond))
		},
	}
}

func human(n int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)
	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(GB))
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (p *Progress) render(force bool) {
	// throttling: ~10 updates per second
	if !force && time.Since(p.lastTick) < 100*time.Millisecond {
		return
	}
	p.lastTick = time.Now()

	prefix := fmt.Sprintf("[%d/%d] %s", p.fileIdx, p.totalFiles, p.fileName)
	if p.totalBytes > 0 {
		done := min(p.doneBytes, p.totalBytes)
		pct := float64(done) / float64(p.totalBytes) * 100
		fmt.Fprintf(p.out, "\r%s %6.2f%% (%s / %s)", prefix, pct, human(done), human(p.totalBytes))
		return
	}
	ch := spinner[p.spinIdx%len(spinner)]
	p.spinIdx++
	fmt.Fprintf(p.out, "\r%s [%c] %s sent", prefix, ch, human(p.doneBytes))
}
