package domain

// ReferenceSource は被写体リファレンスの由来を表します。
type ReferenceSource string

const (
	// ReferenceFromURL はユーザーが直接入力した画像URL由来を示します。
	ReferenceFromURL ReferenceSource = "fromUrl"
	// ReferenceFromUpload は base64 アップロード由来を示します。
	ReferenceFromUpload ReferenceSource = "fromUpload"
)

// ResolvedReference は Reference Resolver が正規化した単一の条件付けペイロードです。
// URL か (Data, MimeType) のどちらか一方だけが設定されます。
// 同一リクエスト内の全ページ生成呼び出しで、この同じ値を使い回すことで
// キャラクターの見た目の一貫性を保ちます。
type ResolvedReference struct {
	// URL は画像の参照先です。取得は行わず、画像生成側が生成時に解決します。
	URL string
	// Data はアップロードされた画像のデコード済みバイト列です。
	Data []byte
	// MimeType は Data の宣言済み MIME タイプです（例: "image/png"）。
	MimeType string
	Source   ReferenceSource
}

// Inline は正規化結果がインラインペイロードかどうかを返します。
func (r ResolvedReference) Inline() bool {
	return len(r.Data) > 0
}
