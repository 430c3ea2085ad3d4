// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyztai/xyzt-cli-sdk/sdk/config"
)

type received struct {
	Path        string
	Batch       string
	Auth        string
	FieldName   string
	FileName    string
	ContentType string
	Body        string
}

// platform is a fake of the token and upload endpoints below /public/api.
type platform struct {
	mu        sync.Mutex
	tokens    int
	uploads   []received
	failFile  string
	denyToken bool
}

func (p *platform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/public/api/tokens":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if p.denyToken || body["userName"] != "alice" || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
			return
		}
		p.tokens++
		_ = json.NewEncoder(w).Encode(map[string]string{"jwtToken": "tok" + string(rune('0'+p.tokens))})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/upload"):
		mr, err := r.MultipartReader()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		part, err := mr.NextPart()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		content, _ := io.ReadAll(part)
		rec := received{
			Path:        r.URL.Path,
			Batch:       r.URL.Query().Get("batch"),
			Auth:        r.Header.Get("Authorization"),
			FieldName:   part.FormName(),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        string(content),
		}
		p.uploads = append(p.uploads, rec)
		if rec.FileName == p.failFile {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid header"}`))
			return
		}
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestService(t *testing.T, p *platform, opts ...Option) *UploadService {
	t.Helper()
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)

	conf := config.Config{Core: config.CoreConfig{BaseURL: srv.URL + "/public/api"}}
	svc, err := NewUploadService(context.Background(), conf, opts...)
	require.NoError(t, err)
	return svc
}

var alice = config.Credentials{UserName: "alice", Password: "secret"}

func sampleFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/in/a.csv":            "root",
		"/in/sub1/b.csv":       "bee",
		"/in/sub1/c.csv.gz":    "gz",
		"/in/my batch/d.csv":   "dee",
		"/in/sub1/ignored.txt": "nope",
		"/in/root-only.csv.gz": "skipped",
	}
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func TestRunUploadsEveryFileWithFreshToken(t *testing.T) {
	p := &platform{}
	svc := newTestService(t, p, WithFs(sampleFs(t)))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 4, report.Uploaded)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, report.RunID, 32)
	assert.Equal(t, DataTypeData, report.DataType)
	assert.Equal(t, ModeBatches, report.Mode)
	assert.Equal(t, 4, p.tokens)

	byName := map[string]received{}
	auths := map[string]bool{}
	for _, u := range p.uploads {
		byName[u.FileName] = u
		auths[u.Auth] = true
		assert.Equal(t, "/public/api/datasets/ds1/data/upload", u.Path)
		assert.Equal(t, "file", u.FieldName)
	}
	assert.Len(t, auths, 4, "every file uses its own token")

	assert.Equal(t, received{
		Path: "/public/api/datasets/ds1/data/upload", Auth: byName["a.csv"].Auth,
		FieldName: "file", FileName: "a.csv", ContentType: "text/csv", Body: "root",
	}, byName["a.csv"])
	assert.Equal(t, "sub1", byName["b.csv"].Batch)
	assert.Equal(t, "sub1", byName["c.csv.gz"].Batch)
	assert.Equal(t, "application/gzip", byName["c.csv.gz"].ContentType)
	assert.Equal(t, "gz", byName["c.csv.gz"].Body)
	assert.Equal(t, "my_batch", byName["d.csv"].Batch)
	assert.NotContains(t, byName, "root-only.csv.gz")
	assert.NotContains(t, byName, "ignored.txt")
}

func TestRunMetadataTarget(t *testing.T) {
	p := &platform{}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/meta.csv", []byte("k,v"), 0o644))
	svc := newTestService(t, p, WithFs(fs))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds9",
		Credentials: alice,
		DataType:    DataTypeMetadata,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	require.Len(t, p.uploads, 1)
	assert.Equal(t, "/public/api/datasets/ds9/metadata/upload", p.uploads[0].Path)
}

func TestRunContinuesAfterFailedFile(t *testing.T) {
	p := &platform{failFile: "b.csv"}
	svc := newTestService(t, p, WithFs(sampleFs(t)))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, p.uploads, 4)

	var failed *FileOutcome
	for i := range report.Files {
		if report.Files[i].Status != StatusUploaded {
			failed = &report.Files[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "b.csv", failed.Name)
	assert.Equal(t, StatusUploadFailed, failed.Status)
	assert.Equal(t, http.StatusBadRequest, failed.StatusCode)
	assert.Equal(t, "invalid header", failed.Message)
}

func TestRunAuthenticationFailureAborts(t *testing.T) {
	p := &platform{denyToken: true}
	svc := newTestService(t, p, WithFs(sampleFs(t)))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.ErrorIs(t, err, config.ErrAuthentication)
	require.NotNil(t, report)
	assert.Empty(t, p.uploads)
	assert.Equal(t, 0, report.Uploaded)
	assert.ErrorContains(t, err, "bad credentials")
}

type flakyTokens struct {
	calls  int
	failAt int
}

func (f *flakyTokens) GetToken(_ context.Context, _ config.Credentials) (string, error) {
	f.calls++
	if f.calls == f.failAt {
		return "", config.ErrAuthentication
	}
	return "tok", nil
}

func TestRunReturnsPartialReportOnLateAuthFailure(t *testing.T) {
	p := &platform{}
	tokens := &flakyTokens{failAt: 3}
	svc := newTestService(t, p, WithFs(sampleFs(t)), WithTokenSource(tokens))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.ErrorIs(t, err, config.ErrAuthentication)
	assert.Equal(t, 2, report.Uploaded)
	assert.Len(t, p.uploads, 2)
}

func TestRunFlatMode(t *testing.T) {
	p := &platform{}
	svc := newTestService(t, p, WithFs(sampleFs(t)))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds1",
		Credentials: alice,
		Mode:        ModeFlat,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Uploaded)
	for _, u := range p.uploads {
		assert.Empty(t, u.Batch)
	}
}

func TestRunValidation(t *testing.T) {
	svc := newTestService(t, &platform{}, WithFs(afero.NewMemMapFs()))

	cases := map[string]UploadRequest{
		"missing input":   {DatasetID: "ds1", Credentials: alice},
		"missing dataset": {Input: "/in", Credentials: alice},
		"missing creds":   {Input: "/in", DatasetID: "ds1"},
		"bad mode":        {Input: "/in", DatasetID: "ds1", Credentials: alice, Mode: "tree"},
		"bad data type":   {Input: "/in", DatasetID: "ds1", Credentials: alice, DataType: "blob"},
		"missing dir":     {Input: "/in", DatasetID: "ds1", Credentials: alice},
		"bad scheme":      {Input: "ftp://host/x", DatasetID: "ds1", Credentials: alice},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			report, err := svc.Run(context.Background(), req)
			assert.Error(t, err)
			assert.Nil(t, report)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	p := &platform{}
	svc := newTestService(t, p, WithFs(sampleFs(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := svc.Run(ctx, UploadRequest{Input: "/in", DatasetID: "ds1", Credentials: alice})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, p.uploads)
}

func TestRunFromS3(t *testing.T) {
	p := &platform{}
	store := &fakeStore{
		objects: []config.S3File{
			{Key: "drop/x.csv", Size: 5},
			{Key: "drop/week 1/y.csv.gz", Size: 4},
		},
		content: map[string]string{
			"drop/x.csv":           "x,y,z",
			"drop/week 1/y.csv.gz": "gzip",
		},
	}
	svc := newTestService(t, p, WithObjectStore(store))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "s3://bucket/drop/",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Uploaded)
	require.Len(t, p.uploads, 2)
	assert.Equal(t, "x,y,z", p.uploads[0].Body)
	assert.Equal(t, "", p.uploads[0].Batch)
	assert.Equal(t, "gzip", p.uploads[1].Body)
	assert.Equal(t, "week_1", p.uploads[1].Batch)
	assert.Equal(t, "application/gzip", p.uploads[1].ContentType)
}

func TestRunS3DownloadFailureIsRecorded(t *testing.T) {
	p := &platform{}
	store := &fakeStore{
		objects: []config.S3File{{Key: "a.csv"}, {Key: "b.csv"}},
		content: map[string]string{"b.csv": "bee"},
	}
	svc := newTestService(t, p, WithObjectStore(store))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "s3://bucket",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, StatusIOFailed, report.Files[0].Status)
	assert.Equal(t, 1, p.tokens, "no token is requested for a file that cannot be read")
}

func TestRunWithProgress(t *testing.T) {
	var out bytes.Buffer
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/a.csv", []byte("1,2,3"), 0o644))
	svc := newTestService(t, &platform{}, WithFs(fs), WithProgress(&out))

	_, err := svc.Run(context.Background(), UploadRequest{Input: "/in", DatasetID: "ds1", Credentials: alice})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[1/1] a.csv")
	assert.Contains(t, out.String(), "100.00%")
}

// unreadableFs opens every file normally but fails reading the one called name.
type unreadableFs struct {
	afero.Fs
	name string
}

func (u unreadableFs) Open(name string) (afero.File, error) {
	f, err := u.Fs.Open(name)
	if err != nil || filepath.Base(name) != u.name {
		return f, err
	}
	return unreadableFile{f}, nil
}

type unreadableFile struct {
	afero.File
}

func (unreadableFile) Read([]byte) (int, error) {
	return 0, errors.New("input/output error")
}

func TestRunReadFailureDuringUploadIsIOFailure(t *testing.T) {
	p := &platform{}
	svc := newTestService(t, p, WithFs(unreadableFs{Fs: sampleFs(t), name: "b.csv"}))

	report, err := svc.Run(context.Background(), UploadRequest{
		Input:       "/in",
		DatasetID:   "ds1",
		Credentials: alice,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Uploaded)
	assert.Equal(t, 1, report.Failed)

	for _, f := range report.Files {
		if f.Name != "b.csv" {
			assert.Equal(t, StatusUploaded, f.Status, f.Name)
			continue
		}
		assert.Equal(t, StatusIOFailed, f.Status)
		assert.Zero(t, f.StatusCode)
		assert.Contains(t, f.Message, "input/output error")
	}
}
