// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers: the public policy read
// endpoints and the thin JSON endpoints behind the collaborator contracts
// (template management, site registration, scan ingestion). All responses
// use the success/error envelope with stable numeric error codes.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"policyhub/internal/policy"
)

// maxBodyBytes caps request bodies on the write endpoints.
const maxBodyBytes = 1 << 20

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// respondData writes the success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data}); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError writes the error envelope. Typed policy errors carry their
// own HTTP status and code; anything else is an unexpected render failure.
func respondError(w http.ResponseWriter, err error) {
	var perr *policy.Error
	if !errors.As(err, &perr) {
		slog.Error("unexpected handler error", "error", err)
		perr = &policy.Error{
			Code:    policy.CodeRenderFailed,
			Status:  http.StatusInternalServerError,
			Message: "Failed to render policy",
		}
	} else if perr.Err != nil {
		slog.Error("policy error", "code", perr.Code, "error", perr.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(perr.Status)
	if encErr := json.NewEncoder(w).Encode(errorEnvelope{Error: perr.Message, Code: perr.Code}); encErr != nil {
		slog.Error("encode error response failed", "error", encErr)
	}
}

// respondBadRequest writes a 400 with the validation message and code.
func respondBadRequest(w http.ResponseWriter, message string, code int) {
	respondError(w, &policy.Error{Code: code, Status: http.StatusBadRequest, Message: message})
}

// decodeJSON reads a size-capped JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
