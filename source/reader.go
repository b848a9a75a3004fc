package source

import "io"

// Reader adapts an io.Reader. Skipping discards bytes unless the reader is an
// io.Seeker.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

func (r *Reader) Skip(n uint64) (uint64, error) {
	if s, ok := r.r.(io.Seeker); ok && n <= 1<<62 {
		cur, err := s.Seek(0, io.SeekCurrent)
		if err == nil {
			end, err := s.Seek(0, io.SeekEnd)
			if err != nil {
				return 0, err
			}
			target := min(uint64(max(end-cur, 0)), n)
			if _, err := s.Seek(cur+int64(target), io.SeekStart); err != nil {
				return 0, err
			}
			if target < n {
				return target, io.EOF
			}
			return n, nil
		}
	}
	skipped, err := io.CopyN(io.Discard, r.r, int64(min(n, 1<<62)))
	return uint64(skipped), err
}
