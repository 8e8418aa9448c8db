// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/NVIDIA/scoreboard/pkg/defaults"
	"github.com/NVIDIA/scoreboard/pkg/errors"
	"github.com/NVIDIA/scoreboard/pkg/recorder"
	"github.com/NVIDIA/scoreboard/pkg/serializer"
	"github.com/NVIDIA/scoreboard/pkg/server"
	"github.com/NVIDIA/scoreboard/pkg/store"
	"github.com/NVIDIA/scoreboard/pkg/summary"
)

// Route paths served by Handler.
const (
	RecordsPath = "/v1/records"
	SummaryPath = "/v1/summary"
)

// Handler serves record ingestion and summaries over one store.
type Handler struct {
	store    store.Store
	importer *recorder.Importer
	version  string
}

// NewHandler returns a Handler recording through importer and summarizing
// from st.
func NewHandler(st store.Store, importer *recorder.Importer, version string) *Handler {
	return &Handler{store: st, importer: importer, version: version}
}

// Routes returns the handler functions keyed by path.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RecordsPath: h.HandleRecords,
		SummaryPath: h.HandleSummary,
	}
}

// HandleRecords records a RecordBatch posted as JSON or YAML and responds
// with the import result.
func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecordHandlerTimeout)
	defer cancel()

	batch, err := decodeBatch(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			server.WriteError(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidRequest,
				"Record batch too large", false, map[string]any{"limit": tooLarge.Limit})
			return
		}
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Invalid record batch", false, map[string]any{"error": err.Error()})
		return
	}
	if len(batch.Records) == 0 {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Record batch cannot be empty", false, nil)
		return
	}

	res, err := h.importer.Import(ctx, batch)
	if err != nil {
		details := map[string]any{}
		if res != nil {
			details["recorded"] = res.Recorded
			details["total"] = res.Total
		}
		server.WriteErrorFromErr(w, r, err, "Failed to record batch", details)
		return
	}

	slog.Info("recorded batch",
		"requestID", server.RequestID(r.Context()),
		"collection", res.Collection,
		"ws", res.Workspace,
		"records", res.Recorded)
	serializer.RespondJSON(w, http.StatusCreated, res)
}

// decodeBatch reads the whole body before decoding so an oversized body
// surfaces as *http.MaxBytesError whichever decoder is used.
func decodeBatch(r *http.Request) (*recorder.Batch, error) {
	format := serializer.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = serializer.FormatYAML
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	rd, err := serializer.NewReader(format, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var batch recorder.Batch
	if err := rd.Deserialize(&batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// HandleSummary summarizes a collection from query parameters and renders
// the table in the requested output format (JSON by default).
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodGet},
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.SummaryHandlerTimeout)
	defer cancel()

	req, format, err := ParseSummaryQuery(r.URL.Query())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid summary query", nil)
		return
	}

	slog.Debug("summary request",
		"requestID", server.RequestID(r.Context()),
		"collection", req.Collection,
		"scheme", req.Scheme,
		"rows", req.Rows,
		"columns", req.Columns,
		"format", format)

	doc, err := req.Execute(ctx, h.store, h.version)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to summarize collection", nil)
		return
	}

	serializer.Respond(w, r, http.StatusOK, format, doc)
}

// ParseSummaryQuery maps summary query parameters onto a Request and an
// output format. List parameters accept repeated keys and comma-separated
// values; rows and columns given as empty mean "no keys" while absent
// means inferred.
func ParseSummaryQuery(q url.Values) (summary.Request, serializer.Format, error) {
	req := summary.Request{
		Collection:      q.Get("collection"),
		Rows:            listParam(q, "rows"),
		Columns:         listParam(q, "columns"),
		RowSelection:    listParam(q, "row-selection"),
		ColumnSelection: listParam(q, "column-selection"),
		Scheme:          q.Get("scheme"),
		Regex:           q.Get("regex"),
		FloatFormat:     q.Get("float-format"),
		DropTags:        listParam(q, "drop-tag"),
		Reindex:         q.Get("reindex"),
		Placeholder:     q.Get("placeholder"),
	}
	if req.Collection == "" {
		return req, "", errors.New(errors.ErrCodeInvalidRequest, "collection parameter is required")
	}

	format := serializer.FormatJSON
	if v := q.Get("output"); v != "" {
		f, err := serializer.ParseFormat(v)
		if err != nil {
			return req, "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid output parameter", err)
		}
		format = f
	}
	req.LaTeX = format == serializer.FormatLaTeX

	var err error
	if req.TopK, err = intParam(q, "topk"); err != nil {
		return req, "", err
	}
	if req.Last, err = boolParam(q, "last", false); err != nil {
		return req, "", err
	}
	if req.LaTeX, err = boolParam(q, "latex", req.LaTeX); err != nil {
		return req, "", err
	}
	if req.StrictDirections, err = boolParam(q, "strict-directions", false); err != nil {
		return req, "", err
	}

	for _, kv := range q["tag"] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return req, "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"tag filter must be key=value", map[string]any{"tag": kv})
		}
		if req.Tags == nil {
			req.Tags = make(map[string]string)
		}
		req.Tags[k] = v
	}
	return req, format, nil
}

func listParam(q url.Values, key string) []string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid %s parameter", key), err, map[string]any{key: v})
	}
	return n, nil
}

func boolParam(q url.Values, key string, def bool) (bool, error) {
	v := q.Get(key)
	if v == "" {
		if _, ok := q[key]; ok {
			return true, nil
		}
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid %s parameter", key), err, map[string]any{key: v})
	}
	return b, nil
}
