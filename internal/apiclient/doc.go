// Package apiclient はストアの REST API を型付きで呼ぶためのラッパー。
//
// どのメソッドも (値, error) を返す。読み取り系は失敗時も正規化済みの
// 空の値（空スライス、Success=false、Error にメッセージ）を一緒に返すので、
// 呼び出し側は error を見ずにそのまま描画してもよい。書き込み系は失敗時に
// ゼロ値と *APIError を返す。通信失敗は ErrUnavailable、解釈できない応答は
// ErrInvalidResponse でラップされる。
package apiclient
