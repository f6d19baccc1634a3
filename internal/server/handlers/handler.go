package handlers

import (
	"fmt"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/pipeline"
)

// Handler は JSON API のすべてのエンドポイントを保持します。
type Handler struct {
	cfg      *config.Config
	pipeline pipeline.Pipeline
	writer   remoteio.OutputWriter
	signer   remoteio.URLSigner
}

// NewHandler は指定された依存関係に基づいて新しいハンドラーを初期化します。
func NewHandler(
	cfg *config.Config,
	p pipeline.Pipeline,
	writer remoteio.OutputWriter,
	signer remoteio.URLSigner,
) (*Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg is required")
	}
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}

	return &Handler{
		cfg:      cfg,
		pipeline: p,
		writer:   writer,
		signer:   signer,
	}, nil
}
