package runner

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"ap-storybook-web/internal/config"
	"ap-storybook-web/internal/domain"
	"ap-storybook-web/internal/prompts"
)

// IllustrationRunner は、被写体の一貫性を保ちながら並列で全ページの挿絵を生成します。
// ページ単位の失敗は記録して飲み込み、リクエスト全体は中断しません。
type IllustrationRunner struct {
	cfg       *config.Config
	generator ImageGenerator
	limiter   *rate.Limiter
}

// NewIllustrationRunner は依存関係を注入して初期化します。
func NewIllustrationRunner(cfg *config.Config, gen ImageGenerator) *IllustrationRunner {
	return &IllustrationRunner{
		cfg:       cfg,
		generator: gen,
		limiter:   rate.NewLimiter(rate.Every(cfg.RateInterval), 1),
	}
}

// Run は各ページに対して1回ずつ挿絵生成を実行します。
// 返り値は pages と同じ長さ・同じ順序で、失敗したページは nil のままです。
// エラーを返すのはリクエスト自体が中断（キャンセル）された場合だけです。
func (ir *IllustrationRunner) Run(ctx context.Context, pages []domain.StoryPage, ref domain.ResolvedReference, storyID string) ([]*ImageResult, error) {
	results := make([]*ImageResult, len(pages))

	// 条件付けパーツはリクエストにつき一度だけ用意し、全ページで共有する
	refPart, err := ir.generator.PrepareReference(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// リファレンスが生成時に解決できない場合、全ページが失敗する。
		// これは全滅＝テキストのみへの降格であり、リクエストの失敗ではない。
		slog.WarnContext(ctx, "Reference preparation failed, all pages will be unillustrated",
			"story_id", storyID, "error", err)
		return results, nil
	}

	seed := seedFromToken(storyID)

	slog.Info("Starting parallel illustration generation",
		"story_id", storyID,
		"pages", len(pages),
		"concurrency", ir.cfg.ImageConcurrency,
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(ir.cfg.ImageConcurrency)

	for i, page := range pages {
		i, page := i, page
		eg.Go(func() error {
			if err := ir.limiter.Wait(egCtx); err != nil {
				// キャンセルのみがここに到達する。伝播して残りの起動を止める。
				return err
			}

			prompt := prompts.BuildIllustrationPrompt(page.English, ir.cfg.StyleSuffix, refPart != nil)

			callCtx, cancel := context.WithTimeout(egCtx, ir.cfg.ImageTimeout)
			defer cancel()

			startTime := time.Now()
			resp, err := ir.generator.Generate(callCtx, prompt, refPart, &seed)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				pageErr := classifyPageError(err)
				slog.WarnContext(egCtx, "Page illustration failed, continuing with siblings",
					"story_id", storyID,
					"page_index", i+1,
					"error", pageErr,
				)
				return nil
			}

			slog.Info("Page illustration completed",
				"page_index", i+1,
				"duration", time.Since(startTime).Round(time.Millisecond),
			)
			results[i] = resp
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return results, nil
}

// classifyPageError はページ単位の失敗を分類エラーでラップします。
func classifyPageError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrIllustration, err)
}

// seedFromToken は相関トークンから決定論的なシード値を導出します。
// シード固定の保証がないプロバイダでも、同一リクエスト内の全呼び出しで
// 同じアンカーを渡すことで見た目の一貫性をベストエフォートで高めます。
func seedFromToken(token string) int32 {
	hash := sha256.Sum256([]byte(token))
	seed := int32(binary.BigEndian.Uint32(hash[:4]))
	if seed < 0 {
		seed = -seed
	}
	return seed
}
