package handlers

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/biovolailles/bvugo/internal/trace"
	"github.com/biovolailles/bvugo/internal/utils"
	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"
)

// traceBatch is the public provenance endpoint behind every batch QR code.
// The reference is looked up verbatim; no format check happens first.
func (r *Router) traceBatch(w http.ResponseWriter, req *http.Request) {
	ref := mux.Vars(req)["batchRef"]

	view, err := r.resolver.Resolve(req.Context(), ref, trace.ScanOrigin{
		IPAddress: clientIP(req),
		Region:    req.Header.Get("X-Region"),
	})
	if errors.Is(err, trace.ErrBatchNotFound) {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"not_found": true,
			"batch_ref": ref,
		})
		return
	}
	if err != nil {
		// Includes source integrity violations; never render a partial chain
		respondError(w, http.StatusInternalServerError, "Failed to resolve batch")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// traceQR serves the QR code PNG for a batch trace URL
func (r *Router) traceQR(w http.ResponseWriter, req *http.Request) {
	ref := mux.Vars(req)["batchRef"]
	if ref == "" {
		respondError(w, http.StatusNotFound, "Batch not found")
		return
	}

	// High error correction so printed labels survive handling
	png, err := qrcode.Encode(utils.TraceURL(r.cfg.PublicOrigin, ref), qrcode.High, 300)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}

// clientIP extracts the viewer address for scan log metadata
func clientIP(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
