package backups

import "io"

const progressStepPct = 5

// progressReader reports every progressStepPct percent of total read.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	nextPct    int64
	onProgress func(pct int, read int64)
}

func newProgressReader(r io.Reader, total int64, onProgress func(pct int, read int64)) io.Reader {
	if total <= 0 {
		return r
	}
	return &progressReader{r: r, total: total, nextPct: progressStepPct, onProgress: onProgress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	pct := p.read * 100 / p.total
	if pct >= p.nextPct && p.nextPct <= 100 {
		// report the highest step reached once, even when a single read crosses several
		reached := pct - pct%progressStepPct
		if reached > 100 {
			reached = 100
		}
		p.onProgress(int(reached), p.read)
		p.nextPct = reached + progressStepPct
	}
	return n, err
}
