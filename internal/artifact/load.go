package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hoopsight/pointcast/internal/platform/logging"
)

const maxArtifactBytes = 64 << 20

// Loader resolves a model path that is either a local file or an HTTP(S)
// object URL. Remote artifacts are staged through a temp file that is removed
// after the load, whether it succeeded or not.
type Loader struct {
	HTTPClient *http.Client
	Logger     *logging.Logger
	StageDir   string // temp-file location for remote artifacts, defaults to the system temp dir
}

func (l Loader) Load(ctx context.Context, path string) (Regressor, error) {
	logger := l.Logger
	if logger == nil {
		logger = logging.Default()
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("model path is required")
	}

	raw, err := l.readArtifact(ctx, path, logger)
	if err != nil {
		return nil, err
	}

	model, err := decodeModel(raw)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	logger.InfoContext(ctx, "loaded model artifact", "path", path, "features", len(model.Features()))
	return model, nil
}

func (l Loader) readArtifact(ctx context.Context, path string, logger *logging.Logger) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return l.downloadArtifact(ctx, path, logger)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return raw, nil
}

func (l Loader) downloadArtifact(ctx context.Context, objectURL string, logger *logging.Logger) ([]byte, error) {
	httpClient := l.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	stage, err := os.CreateTemp(l.StageDir, "model-*.json")
	if err != nil {
		return nil, fmt.Errorf("create model stage file: %w", err)
	}
	stageName := stage.Name()
	defer os.Remove(stageName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, objectURL, nil)
	if err != nil {
		stage.Close()
		return nil, fmt.Errorf("build model request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		stage.Close()
		return nil, fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		stage.Close()
		return nil, fmt.Errorf("download model: status=%d", resp.StatusCode)
	}

	if _, err := io.Copy(stage, io.LimitReader(resp.Body, maxArtifactBytes)); err != nil {
		stage.Close()
		return nil, fmt.Errorf("stage model artifact: %w", err)
	}
	if err := stage.Close(); err != nil {
		return nil, fmt.Errorf("close model stage file: %w", err)
	}
	logger.DebugContext(ctx, "staged model artifact", "url", objectURL, "stage", stageName)

	raw, err := os.ReadFile(stageName)
	if err != nil {
		return nil, fmt.Errorf("read staged model: %w", err)
	}
	return raw, nil
}
