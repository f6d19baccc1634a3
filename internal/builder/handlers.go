package builder

import (
	"fmt"

	"ap-storybook-web/internal/app"
	"ap-storybook-web/internal/server/handlers"
)

// BuildHandlers は HTTP ハンドラーの依存関係を組み立てます。
func BuildHandlers(container *app.Container) (*handlers.Handler, error) {
	h, err := handlers.NewHandler(
		container.Config,
		container.Pipeline,
		container.RemoteIO.Writer,
		container.RemoteIO.Signer,
	)
	if err != nil {
		return nil, fmt.Errorf("ハンドラーの初期化に失敗しました: %w", err)
	}
	return h, nil
}
