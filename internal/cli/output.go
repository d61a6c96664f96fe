package cli

import (
	"fmt"
	"http-engine/application/http"
	sliceutil "http-engine/lib/slice"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/term"
)

// isTerminal reports whether w writes to a terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isBinary tells whether the payload of res is unfit for a terminal.
// The declared Content-Type decides; without one the payload is sniffed.
func isBinary(res *http.Response) bool {
	if ct, ok := res.Headers.Get("Content-Type"); ok {
		return !isTextual(ct)
	}

	if len(res.Payload) == 0 {
		return false
	}

	for m := mimetype.Detect(res.Payload); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
	}
	return true
}

func isTextual(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	switch {
	case strings.HasPrefix(mediaType, "text/"),
		strings.HasSuffix(mediaType, "+json"),
		strings.HasSuffix(mediaType, "+xml"):
		return true
	}

	switch mediaType {
	case "application/json",
		"application/xml",
		"application/javascript",
		"application/x-www-form-urlencoded":
		return true
	}
	return false
}

func printReport(w io.Writer, res *http.Response) {
	for _, field := range res.Headers.Fields() {
		fmt.Fprintf(w, "%s: %s\n", field[0], field[1])
	}

	fmt.Fprintf(w, "Upload size: %d\n", res.UploadSize)
	fmt.Fprintf(w, "Download size: %d\n", res.DownloadSize)
	fmt.Fprintf(w, "Status: %d\n", res.StatusCode)
	if !res.OK() {
		fmt.Fprintf(w, "error code: %s\n", res.ErrorCode)
		fmt.Fprintf(w, "error message: %s\n", res.ErrorMessage)
	}
}

// printStats writes every sample gathered from g, one per line.
func printStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName() + formatLabels(metric.GetLabel())

			switch family.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %g\n", name, metric.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %g\n", name, metric.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				fmt.Fprintf(w, "%s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}

	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}

	pairs := sliceutil.Map(labels, func(l *dto.LabelPair) string {
		return fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	})
	sort.Strings(pairs)

	return "{" + strings.Join(pairs, ",") + "}"
}
