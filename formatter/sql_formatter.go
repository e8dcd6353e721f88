// Package formatter reformats a single-line SQL string produced by the
// statement formatter into a multi-line, indented layout, for use when
// Options.Pretty is requested but a caller wants more than simple
// newline-joined clauses.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// SQLFormatter reformats already-valid SQL text with consistent indentation.
type SQLFormatter struct {
	indentSize int
}

// NewSQLFormatter creates a new SQL formatter.
func NewSQLFormatter() *SQLFormatter {
	return &SQLFormatter{
		indentSize: 4,
	}
}

// Format reformats a SQL string.
func (f *SQLFormatter) Format(sql string) (string, error) {
	tokens, err := f.tokenize(sql)
	if err != nil {
		return "", fmt.Errorf("failed to tokenize SQL: %w", err)
	}

	return f.formatTokens(tokens), nil
}

// Token represents a SQL token.
type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	TokenKeyword TokenType = iota
	TokenIdentifier
	TokenOperator
	TokenLiteral
	TokenComment
	TokenNewline
	TokenComma
	TokenOpenParen
	TokenCloseParen
)

// Tokenize breaks SQL into tokens (exported for tests).
func (f *SQLFormatter) Tokenize(sql string) ([]Token, error) {
	return f.tokenize(sql)
}

func (f *SQLFormatter) tokenize(sql string) ([]Token, error) {
	var tokens []Token

	commentRe := regexp.MustCompile(`--[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`)
	stringLiteralRe := regexp.MustCompile(`'([^'\\]|\\.)*'|"([^"\\]|\\.)*"`)
	numberRe := regexp.MustCompile(`\d+(\.\d+)?`)
	identifierRe := regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

	keywords := map[string]bool{
		"SELECT": true, "FROM": true, "WHERE": true, "JOIN": true, "INNER": true,
		"LEFT": true, "RIGHT": true, "FULL": true, "OUTER": true, "ON": true,
		"GROUP": true, "BY": true, "HAVING": true, "ORDER": true, "LIMIT": true,
		"OFFSET": true, "INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true,
		"SET": true, "DELETE": true, "CREATE": true, "TABLE": true, "ALTER": true,
		"DROP": true, "INDEX": true, "VIEW": true, "UNION": true, "ALL": true,
		"DISTINCT": true, "AS": true, "AND": true, "OR": true, "NOT": true,
		"NULL": true, "IS": true, "IN": true, "EXISTS": true, "BETWEEN": true,
		"LIKE": true, "CASE": true, "WHEN": true, "THEN": true, "ELSE": true,
		"END": true, "FOR": true, "ASC": true, "DESC": true,
		"WITH": true, "RECURSIVE": true,
		"RETURNING": true, "CONFLICT": true, "DO": true, "NOTHING": true,
	}

	pos := 0
	for pos < len(sql) {
		if sql[pos] == ' ' || sql[pos] == '\t' {
			pos++
			continue
		}

		if sql[pos] == '\n' {
			tokens = append(tokens, Token{Type: TokenNewline, Value: "\n"})
			pos++

			continue
		}

		if strings.HasPrefix(sql[pos:], "--") || strings.HasPrefix(sql[pos:], "/*") {
			if commentMatch := commentRe.FindStringIndex(sql[pos:]); commentMatch != nil && commentMatch[0] == 0 {
				comment := sql[pos : pos+commentMatch[1]]
				tokens = append(tokens, Token{Type: TokenComment, Value: comment})
				pos += commentMatch[1]

				continue
			}
		}

		if sql[pos] == '\'' || sql[pos] == '"' {
			if stringMatch := stringLiteralRe.FindStringIndex(sql[pos:]); stringMatch != nil && stringMatch[0] == 0 {
				literal := sql[pos : pos+stringMatch[1]]
				tokens = append(tokens, Token{Type: TokenLiteral, Value: literal})
				pos += stringMatch[1]

				continue
			}
		}

		if sql[pos] >= '0' && sql[pos] <= '9' {
			if numberMatch := numberRe.FindStringIndex(sql[pos:]); numberMatch != nil && numberMatch[0] == 0 {
				number := sql[pos : pos+numberMatch[1]]
				tokens = append(tokens, Token{Type: TokenLiteral, Value: number})
				pos += numberMatch[1]

				continue
			}
		}

		if (sql[pos] >= 'a' && sql[pos] <= 'z') || (sql[pos] >= 'A' && sql[pos] <= 'Z') || sql[pos] == '_' {
			if identMatch := identifierRe.FindStringIndex(sql[pos:]); identMatch != nil && identMatch[0] == 0 {
				ident := sql[pos : pos+identMatch[1]]
				upperIdent := strings.ToUpper(ident)

				if keywords[upperIdent] {
					tokens = append(tokens, Token{Type: TokenKeyword, Value: upperIdent})
				} else {
					tokens = append(tokens, Token{Type: TokenIdentifier, Value: ident})
				}

				pos += identMatch[1]

				continue
			}
		}

		char := sql[pos]
		switch char {
		case ',':
			tokens = append(tokens, Token{Type: TokenComma, Value: ","})
		case '(':
			tokens = append(tokens, Token{Type: TokenOpenParen, Value: "("})
		case ')':
			tokens = append(tokens, Token{Type: TokenCloseParen, Value: ")"})
		case '=', '<', '>', '!', '+', '-', '*', '/', '%', '?', '$':
			if pos+1 < len(sql) && (sql[pos+1] == '=' || (char == '<' && sql[pos+1] == '>') || (char == '!' && sql[pos+1] == '=')) {
				tokens = append(tokens, Token{Type: TokenOperator, Value: sql[pos : pos+2]})
				pos++
			} else {
				tokens = append(tokens, Token{Type: TokenOperator, Value: string(char)})
			}
		default:
			tokens = append(tokens, Token{Type: TokenOperator, Value: string(char)})
		}

		pos++
	}

	return tokens, nil
}

func (f *SQLFormatter) formatTokens(tokens []Token) string {
	var (
		result       strings.Builder
		indentLevel  int
		lastToken    *Token
		inSelectList bool
		inValuesList bool
	)

	for i, token := range tokens {
		switch token.Type {
		case TokenKeyword:
			if f.isStatementKeyword(token.Value) {
				if lastToken != nil && lastToken.Type != TokenNewline {
					result.WriteString("\n")
				}

				indent := indentLevel
				if token.Value == "ON" {
					indent = indentLevel + 1
				}

				result.WriteString(strings.Repeat(" ", indent*f.indentSize))
				result.WriteString(token.Value)

				switch token.Value {
				case "SELECT", "SET":
					inSelectList = true

					if token.Value == "SELECT" && i+1 < len(tokens) && tokens[i+1].Value == "*" {
						break
					}

					result.WriteString("\n")
					result.WriteString(strings.Repeat(" ", (indentLevel+1)*f.indentSize))

					fakeNewline := Token{Type: TokenNewline, Value: "\n"}
					lastToken = &fakeNewline

					continue
				case "VALUES":
					inValuesList = true
				case "FROM", "WHERE":
					inSelectList = false
					inValuesList = false
				}
			} else if token.Value == "AND" || token.Value == "OR" {
				result.WriteString(" ")
				result.WriteString(token.Value)
			} else {
				if lastToken != nil && lastToken.Type != TokenNewline && f.needsSpaceBefore(token.Value) {
					result.WriteString(" ")
				}

				result.WriteString(token.Value)
			}

		case TokenComma:
			result.WriteString(",")

			if inSelectList || inValuesList {
				result.WriteString("\n")
				result.WriteString(strings.Repeat(" ", (indentLevel+1)*f.indentSize))

				fakeNewline := Token{Type: TokenNewline, Value: "\n"}
				lastToken = &fakeNewline

				continue
			}

		case TokenNewline:
			// collapsed by cleanupFormatting

		case TokenComment:
			if strings.HasPrefix(token.Value, "--") {
				result.WriteString(" ")
			}

			result.WriteString(token.Value)

		case TokenOpenParen:
			result.WriteString("(")

			if inValuesList {
				result.WriteString("\n")
				result.WriteString(strings.Repeat(" ", (indentLevel+1)*f.indentSize))
			}

		case TokenCloseParen:
			if inValuesList {
				result.WriteString("\n")
				result.WriteString(strings.Repeat(" ", indentLevel*f.indentSize))
			}

			result.WriteString(")")

		case TokenOperator:
			if token.Value == "." {
				result.WriteString(token.Value)
			} else {
				if lastToken != nil && lastToken.Type != TokenNewline && lastToken.Value != "." && f.needsSpaceBefore(token.Value) {
					result.WriteString(" ")
				}

				result.WriteString(token.Value)
			}

		default:
			if lastToken != nil && lastToken.Type != TokenNewline && lastToken.Value != "." && f.needsSpaceBefore(token.Value) {
				result.WriteString(" ")
			}

			result.WriteString(token.Value)
		}

		lastToken = &token
	}

	return f.cleanupFormatting(result.String())
}

func (f *SQLFormatter) isStatementKeyword(keyword string) bool {
	statementKeywords := map[string]bool{
		"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "HAVING": true,
		"ORDER": true, "LIMIT": true, "OFFSET": true, "INSERT": true, "UPDATE": true,
		"DELETE": true, "CREATE": true, "ALTER": true, "DROP": true,
		"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
		"SET": true, "ON": true, "WITH": true, "RETURNING": true,
	}

	return statementKeywords[keyword]
}

func (f *SQLFormatter) needsSpaceBefore(value string) bool {
	return value != "(" && value != ")" && value != "," && value != ";" && value != "."
}

func (f *SQLFormatter) cleanupFormatting(sql string) string {
	lines := strings.Split(sql, "\n")

	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, strings.TrimRight(line, " \t"))
	}

	result := strings.Join(cleanedLines, "\n")

	result = regexp.MustCompile(`\s+,`).ReplaceAllString(result, ",")
	result = regexp.MustCompile(`\(\s+`).ReplaceAllString(result, "(")
	result = regexp.MustCompile(`\s+\)`).ReplaceAllString(result, ")")
	result = regexp.MustCompile(`\n\s*\n\s*\n`).ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}
