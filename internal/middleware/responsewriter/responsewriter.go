// Package responsewriter wraps an http.ResponseWriter so middlewares can see
// the status code the wrapped handler wrote.
package responsewriter

import "net/http"

// Recorder remembers the first status code written through it.
type Recorder struct {
	http.ResponseWriter

	status int
}

func Wrap(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}

	return &Recorder{ResponseWriter: w}
}

func (r *Recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}

	r.ResponseWriter.WriteHeader(code)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}

	return r.ResponseWriter.Write(b)
}

// Status returns the written status code. A handler that wrote nothing
// implicitly answered with 200.
func (r *Recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}

	return r.status
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *Recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
