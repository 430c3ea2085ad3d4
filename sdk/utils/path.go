// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ParsedPath splits an input location. Local paths have an empty Scheme.
type ParsedPath struct {
	Scheme string
	Host   string
	Path   string
}

func (p *ParsedPath) IsLocal() bool {
	return p.Scheme == ""
}

// ParsePath accepts a local path or an s3://bucket/prefix URI.
func ParsePath(p string) (*ParsedPath, error) {
	if p == "" {
		return nil, errors.New("empty path")
	}
	if !strings.Contains(p, "://") {
		return &ParsedPath{Path: p}, nil
	}

	u, err := url.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p, err)
	}
	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("missing bucket in %q", p)
		}
		return &ParsedPath{
			Scheme: u.Scheme,
			Host:   u.Host,
			Path:   strings.TrimPrefix(u.Path, "/"),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}
