package domain

import "errors"

// パイプラインのエラー分類。HTTP境界では errors.Is で判定し、
// ErrValidation / リファレンス系はクライアント起因(400)、それ以外の致命エラーは500に写像します。
var (
	// ErrValidation はリクエストの必須項目不足や矛盾を示します。外部呼び出し前に検出されます。
	ErrValidation = errors.New("invalid generation request")

	// ErrInvalidReference は被写体リファレンスが正規化・許可リスト検査に通らなかったことを示します。
	ErrInvalidReference = errors.New("invalid subject reference")

	// ErrUnsupportedMediaType はアップロードペイロードの MIME タイプが許可リスト外であることを示します。
	ErrUnsupportedMediaType = errors.New("unsupported reference media type")

	// ErrPayloadTooLarge はデコード後サイズが設定上限を超えたことを示します。
	ErrPayloadTooLarge = errors.New("reference payload too large")

	// ErrTextGeneration は本文生成の失敗を示します。本文なしでは物語が成立しないため致命的です。
	ErrTextGeneration = errors.New("story text generation failed")

	// ErrMalformedGeneration は本文生成の応答が利用不能な形（ページ0件、空の言語フィールド等）
	// だったことを示します。空の物語を黙って返してはなりません。
	ErrMalformedGeneration = errors.New("story text response is malformed")

	// ErrIllustration はページ単位の挿絵生成失敗です。記録して飲み込み、リクエストは中断しません。
	ErrIllustration = errors.New("illustration generation failed")

	// ErrUpstreamTimeout は外部呼び出しの個別タイムアウトです。
	// 本文生成では致命的、挿絵生成ではそのページの失敗として扱います。
	ErrUpstreamTimeout = errors.New("upstream call timed out")
)

// ClientFault は呼び出し側が修正可能なエラー（400系）かどうかを判定します。
func ClientFault(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidReference) ||
		errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrPayloadTooLarge)
}
