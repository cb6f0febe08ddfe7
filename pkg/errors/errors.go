// Package errors はライブラリ全体のエラーハンドリングを提供します。
// 構造化されたエラー型とcockroachdb/errorsによるスタックトレース付与を組み合わせ、
// モデルファイルの解析・数値計算・点選択の各段階で発生するエラーを分類します。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ModelParseError は永続化されたモデルファイルの解析に失敗した場合のエラーです。
// 欠落セクション・トークン数不一致・未解決のカーネル参照などを表します。
type ModelParseError struct {
	Path    string // 解析対象のファイルパス（Reader経由の場合は空）
	Section string // 解析中のセクション（例: "[training_data.x]", "composition"）
	Line    int    // 1始まりの行番号（不明な場合は0）
	Reason  string
}

func (e *ModelParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("krigo: model parse failed at line %d (%s): %s", e.Line, e.Section, e.Reason)
	}
	return fmt.Sprintf("krigo: model parse failed (%s): %s", e.Section, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ModelParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("section", e.Section).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "ModelParseError")
}

// NewModelParseError は新しいModelParseErrorを作成し、スタックトレースを付与します。
func NewModelParseError(path, section string, line int, reason string) error {
	err := &ModelParseError{Path: path, Section: section, Line: line, Reason: reason}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("krigo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// NumericalError は数値計算が失敗した場合のエラーです。
// 代表的には共分散行列が特異で逆行列を計算できない場合に発生します。
type NumericalError struct {
	Op   string // 発生した操作（例: "Model.invR"）
	Kind string // 失敗の種類（例: "singular covariance matrix"）
	Err  error  // 下層（gonum等）のエラー
}

func (e *NumericalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("krigo: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("krigo: %s: %s", e.Op, e.Kind)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", e.Kind).
		Str("type", "NumericalError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewNumericalError は新しいNumericalErrorを作成し、スタックトレースを付与します。
func NewNumericalError(op, kind string, err error) error {
	numErr := &NumericalError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(numErr)
}

// SelectionError は能動学習の点選択が実行できない場合のエラーです。
// 非正の要求数・空の候補プール・全モデルの評価失敗などを表します。
type SelectionError struct {
	Selector string // セレクタ名（例: "random", "epe"）
	Reason   string
	Err      error // 全モデル失敗時の代表エラー（なければnil）
}

func (e *SelectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("krigo: selection failed (%s): %s: %v", e.Selector, e.Reason, e.Err)
	}
	return fmt.Sprintf("krigo: selection failed (%s): %s", e.Selector, e.Reason)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SelectionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("selector", e.Selector).
		Str("reason", e.Reason).
		Str("type", "SelectionError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewSelectionError は新しいSelectionErrorを作成し、スタックトレースを付与します。
func NewSelectionError(selector, reason string, err error) error {
	selErr := &SelectionError{Selector: selector, Reason: reason, Err: err}
	return errors.WithStack(selErr)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("krigo: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// Mark はエラーに参照エラーの識別情報を付与します。
// Is(err, reference) が true になります。
func Mark(err error, reference error) error {
	return errors.Mark(err, reference)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
