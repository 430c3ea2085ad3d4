// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"
)

type CoreHTTP interface {
	BuildURL(path string, params map[string]string) string
	Do(ctx context.Context, method, url, token string, data []byte) ([]byte, int, error)
	DoMultipart(ctx context.Context, url, token string, part FilePart) ([]byte, int, error)
}

// FilePart is the single file part of a multipart/form-data upload.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
	// Size is only used for progress reporting; <= 0 means unknown
	Size int64
	// Boundary overrides the random boundary of mime/multipart
	Boundary string
	Hook     *ProgressHook
}

type httpCore struct {
	httpClient *http.Client
	coreConfig CoreConfig
}

func NewHTTPCore(httpClient *http.Client, coreConfig CoreConfig) CoreHTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
		if coreConfig.Timeout > 0 {
			httpClient = &http.Client{Timeout: coreConfig.Timeout}
		}
	}
	if coreConfig.BaseURL == "" {
		coreConfig.BaseURL = DefaultBaseURL
	}
	return &httpCore{httpClient: httpClient, coreConfig: coreConfig}
}

// BuildURL joins path to the base URL. Query keys are sorted, empty values dropped.
func (httpCore *httpCore) BuildURL(path string, params map[string]string) string {
	base := strings.TrimSuffix(httpCore.coreConfig.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	base += path

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i == 0 {
			base += "?"
		} else {
			base += "&"
		}
		base += fmt.Sprintf("%s=%s", k, url.QueryEscape(params[k]))
	}
	return base
}

func (httpCore *httpCore) Do(ctx context.Context, method, url, token string, data []byte) ([]byte, int, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return httpCore.send(req)
}

// DoMultipart streams part as the only field of a multipart/form-data POST.
func (httpCore *httpCore) DoMultipart(ctx context.Context, url, token string, part FilePart) ([]byte, int, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	if part.Boundary != "" {
		if err := mw.SetBoundary(part.Boundary); err != nil {
			return nil, 0, fmt.Errorf("invalid multipart boundary: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var writeErr error
	written := make(chan struct{})
	go func() {
		defer close(written)
		writeErr = writeFilePart(mw, part)
		pw.CloseWithError(writeErr)
	}()

	b, status, err := httpCore.send(req)
	// unblocks the writer when the transport gave up before draining the body;
	// part.Content must not be touched after return
	_ = pr.Close()
	<-written
	if errors.Is(writeErr, ErrSourceRead) {
		return b, status, writeErr
	}
	return b, status, err
}

// sourceReader tells read failures of the upload content apart from write failures on the pipe.
type sourceReader struct {
	r    io.Reader
	name string
}

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %s: %w", ErrSourceRead, s.name, err)
	}
	return n, err
}

func (httpCore *httpCore) send(req *http.Request) ([]byte, int, error) {
	resp, err := httpCore.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, rerr := io.ReadAll(resp.Body)
	if !IsSuccess(resp.StatusCode) {
		return b, resp.StatusCode, newStatusError(req.Method+" "+req.URL.Path, resp.StatusCode, b)
	}
	return b, resp.StatusCode, rerr
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, part FilePart) error {
	field := part.FieldName
	if field == "" {
		field = "file"
	}
	contentType := part.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(part.FileName)))
	h.Set("Content-Type", contentType)
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	var src io.Reader = sourceReader{r: part.Content, name: part.FileName}
	var pw *progressWriter
	if part.Hook != nil {
		if part.Hook.OnStart != nil {
			part.Hook.OnStart(part.FileName, part.Size)
		}
		pw = &progressWriter{
			key:        part.FileName,
			total:      part.Size,
			interval:   250 * time.Millisecond,
			onProgress: part.Hook.OnProgress,
		}
		src = io.TeeReader(src, pw)
	}

	start := time.Now()
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	if part.Hook != nil && part.Hook.OnDone != nil {
		part.Hook.OnDone(part.FileName, pw.written, time.Since(start))
	}
	return mw.Close()
}
