package app

import (
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"ap-storybook-web/internal/adapters"
	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/pipeline"
)

// Container はアプリケーションの依存関係（DIコンテナ）を保持します。
type Container struct {
	Config *config.Config

	// I/O and Storage
	RemoteIO *RemoteIO

	// Business Logic
	Pipeline pipeline.Pipeline

	// External Adapters
	AIClient      gemini.GenerativeModel
	HTTPClient    httpkit.ClientInterface
	SlackNotifier adapters.SlackNotifier
}

type RemoteIO struct {
	Factory remoteio.IOFactory
	Reader  remoteio.InputReader
	Writer  remoteio.OutputWriter
	Signer  remoteio.URLSigner
}

// Close は、Container が保持するすべての外部接続リソースを安全に解放します。
func (c *Container) Close() {
	if c.RemoteIO != nil && c.RemoteIO.Factory != nil {
		if err := c.RemoteIO.Factory.Close(); err != nil {
			slog.Error("failed to close IOFactory", "error", err)
		}
	}
}
