// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrAuthentication marks a failed token request. Nothing else can succeed after it.
var ErrAuthentication = errors.New("authentication failed")

// ErrSourceRead marks a multipart upload that stopped because its content could not be read.
var ErrSourceRead = errors.New("failed to read upload source")

// StatusError is returned for every response outside the 2xx range.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: platform responded with %d - %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: platform responded with %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: platform responded with %d", e.Op, e.StatusCode)
}

func newStatusError(op string, status int, body []byte) *StatusError {
	se := &StatusError{
		Op:         op,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}
	var m map[string]any
	if json.Unmarshal(body, &m) == nil {
		if msg, ok := m["message"].(string); ok && msg != "" {
			se.Message = msg
		}
	}
	return se
}

// IsSuccess reports whether status is in [200,300).
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
