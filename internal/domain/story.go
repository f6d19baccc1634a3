package domain

// AgeGroup は対象年齢帯を表します。語彙の複雑さと1ページあたりの文章量を決定します。
type AgeGroup string

const (
	AgePreschool  AgeGroup = "3-5"
	AgeEarly      AgeGroup = "6-8"
	AgeElementary AgeGroup = "9-12"
	AgeTeen       AgeGroup = "13+"
)

// Valid は定義済みの年齢帯かどうかを判定します。
func (a AgeGroup) Valid() bool {
	switch a {
	case AgePreschool, AgeEarly, AgeElementary, AgeTeen:
		return true
	}
	return false
}

// ChineseLevel は中国語の習熟度レベルを表します。
// beginner はピンイン寄りの平易な文、advanced は複雑な漢字文を生成させます。
type ChineseLevel string

const (
	LevelBeginner     ChineseLevel = "beginner"
	LevelIntermediate ChineseLevel = "intermediate"
	LevelAdvanced     ChineseLevel = "advanced"
)

// Valid は定義済みのレベルかどうかを判定します。
func (l ChineseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// GenerationRequest は1回の物語生成呼び出しの不変な入力です。
type GenerationRequest struct {
	Prompt       string       `json:"prompt"`
	AgeGroup     AgeGroup     `json:"ageGroup"`
	ChineseLevel ChineseLevel `json:"chineseLevel"`
	// IncludeImages が true の場合、SubjectReference は必須です。
	IncludeImages bool `json:"includeImages"`
	// SubjectReference は HTTP(S) URL、または base64 画像ペイロード（data URI 可）です。
	SubjectReference string `json:"subjectReference,omitempty"`
	// StoryID は呼び出し元が指定する相関トークンです。省略時は時刻から導出されます。
	StoryID string `json:"storyId,omitempty"`
}

// StoryPage は物語の1ページ（英中対訳の1単位）です。
// Chinese は English の訳であり、独立に生成されたものではありません。
type StoryPage struct {
	English string `json:"english"`
	Chinese string `json:"chinese"`
	// Image は挿絵の参照先URLです。画像未要求または生成失敗時は空のままにします。
	// 空でない場合は必ず解決可能な参照であることを保証します（壊れたパスを入れない）。
	Image string `json:"image,omitempty"`
}

// Story は組み立て済みの最終成果物です。Assembled 後は不変として扱います。
type Story struct {
	StoryTitle   string      `json:"storyTitle"`
	ChineseTitle string      `json:"chineseTitle,omitempty"`
	StoryPages   []StoryPage `json:"storyPages"`
}

// PageCount はページ数を返します。挿絵生成はページ数を増減させてはなりません。
func (s Story) PageCount() int {
	return len(s.StoryPages)
}
