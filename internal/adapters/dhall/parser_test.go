package dhall_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgset/internal/adapters/dhall"
	"go.trai.ch/pkgset/internal/core/domain"
)

func parseImports(t *testing.T, src string) []domain.Import {
	t.Helper()
	doc, err := dhall.NewCodec().Parse("test.dhall", []byte(src))
	require.NoError(t, err)
	return doc.Imports()
}

func TestParse_ImportKinds(t *testing.T) {
	src := `
let a = https://example.com/dir/a.dhall?x=1 sha256:df6486e7fad6dbe724c4e2ee5eac65454843dce1f6e10dc35e0b1a8aa9720b26
let b = ../shared/"my file"/b.dhall as Location
let c = ~/config.dhall
let d = /etc/pkgset/packages.dhall
let e = env:HOME as Text
let f = env:"odd name"
let g = missing
in  [ a, b, c, d, e, f, g ]
`
	imports := parseImports(t, src)
	require.Len(t, imports, 7)

	assert.Equal(t, domain.Import{
		Kind:      domain.ImportRemote,
		Scheme:    "https",
		Authority: "example.com",
		Directory: []string{"dir"},
		File:      "a.dhall",
		Query:     "x=1",
		Hash:      "df6486e7fad6dbe724c4e2ee5eac65454843dce1f6e10dc35e0b1a8aa9720b26",
	}, imports[0])

	assert.Equal(t, domain.ImportLocal, imports[1].Kind)
	assert.Equal(t, "../", imports[1].Prefix)
	assert.Equal(t, []string{"shared", "my file"}, imports[1].Directory)
	assert.Equal(t, "b.dhall", imports[1].File)
	assert.Equal(t, domain.ModeLocation, imports[1].Mode)

	assert.Equal(t, "~/", imports[2].Prefix)
	assert.Equal(t, "config.dhall", imports[2].File)

	assert.Equal(t, "/", imports[3].Prefix)
	assert.Equal(t, []string{"etc", "pkgset"}, imports[3].Directory)

	assert.Equal(t, domain.Import{Kind: domain.ImportEnv, EnvVar: "HOME", Mode: domain.ModeText}, imports[4])
	assert.Equal(t, domain.Import{Kind: domain.ImportEnv, EnvVar: "odd name"}, imports[5])
	assert.Equal(t, domain.Import{Kind: domain.ImportMissing}, imports[6])
}

func TestParse_PreOrderTraversal(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "nested groups",
			src:  `{ a = ./one.dhall, b = [ ./two.dhall, (./three.dhall) ], c = "${./four.dhall}" } // ./five.dhall`,
			want: []string{"one.dhall", "two.dhall", "three.dhall", "four.dhall", "five.dhall"},
		},
		{
			name: "local then remote across //",
			src:  "./a.dhall//https://example.com/b.dhall",
			want: []string{"a.dhall", "b.dhall"},
		},
		{
			name: "record then remote across //",
			src:  "{ x = 1 }//https://example.com/b.dhall",
			want: []string{"b.dhall"},
		},
		{
			name: "local then local across //",
			src:  "./a.dhall//./b.dhall",
			want: []string{"a.dhall", "b.dhall"},
		},
		{
			name: "label then local across //",
			src:  "upstream//./b.dhall",
			want: []string{"b.dhall"},
		},
		{
			name: "type combination operators",
			src:  `./a.dhall/\./b.dhall//\\./c.dhall`,
			want: []string{"a.dhall", "b.dhall", "c.dhall"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []string
			for _, imp := range parseImports(t, tt.src) {
				files = append(files, imp.File)
			}
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestParse_CommentsBetweenClauses(t *testing.T) {
	hash := "df6486e7fad6dbe724c4e2ee5eac65454843dce1f6e10dc35e0b1a8aa9720b26"
	tests := []struct {
		name         string
		src          string
		wantMode     domain.ImportMode
		wantComments string
	}{
		{
			name:         "block comment before hash",
			src:          "https://example.com/a.dhall {- pinned -} sha256:" + hash,
			wantComments: "{- pinned -}",
		},
		{
			name:         "line comment before hash",
			src:          "https://example.com/a.dhall -- pinned\n  sha256:" + hash,
			wantComments: "-- pinned\n",
		},
		{
			name:         "comments around as",
			src:          "https://example.com/a.dhall sha256:" + hash + " {- a -} as {- b -} Text",
			wantMode:     domain.ModeText,
			wantComments: "{- a -} {- b -}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dhall.NewCodec().Parse("test.dhall", []byte(tt.src))
			require.NoError(t, err)

			require.Len(t, doc.Root.Children, 1)
			node, ok := doc.Root.Children[0].(*domain.ImportNode)
			require.True(t, ok)
			assert.Equal(t, domain.Hash(hash), node.Import.Hash)
			assert.Equal(t, tt.wantMode, node.Import.Mode)
			assert.Equal(t, tt.src, node.Source)
			assert.Equal(t, tt.wantComments, node.Comments)
		})
	}
}

func TestParse_CommentWithoutClauseStaysText(t *testing.T) {
	doc, err := dhall.NewCodec().Parse("test.dhall", []byte("./a.dhall {- note -}\n"))
	require.NoError(t, err)

	node := doc.Root.Children[0].(*domain.ImportNode)
	assert.Equal(t, "./a.dhall", node.Source)
	assert.Empty(t, node.Comments)
}

func TestParse_IgnoresNonImports(t *testing.T) {
	src := `
-- https://example.com/in/a/line/comment.dhall
{- https://example.com/in/a/{- nested -}/block.dhall -}
let url = "https://example.com/in/text.dhall"
let multi = ''
    ./not/an/import.dhall ''${escaped} '''
    ''
let ` + "`./quoted label`" + ` = 1.5
let combined = { x = 1 } // { y = 2 } /\ { z = 3 }
let labels = Prelude/List/map
let missingness = missing-value
in  url
`
	assert.Empty(t, parseImports(t, src))
}

func TestParse_InterpolationInsideMultilineText(t *testing.T) {
	src := "''\n  value: ${env:VALUE as Text}\n''\n"

	imports := parseImports(t, src)

	require.Len(t, imports, 1)
	assert.Equal(t, "VALUE", imports[0].EnvVar)
	assert.Equal(t, domain.ModeText, imports[0].Mode)
}

func TestParse_HashOnFollowingLine(t *testing.T) {
	src := "let upstream =\n      https://example.com/packages.dhall\n        sha256:df6486e7fad6dbe724c4e2ee5eac65454843dce1f6e10dc35e0b1a8aa9720b26\n\nin  upstream\n"

	doc, err := dhall.NewCodec().Parse("test.dhall", []byte(src))
	require.NoError(t, err)

	imports := doc.Imports()
	require.Len(t, imports, 1)
	assert.True(t, imports[0].IsFrozen())

	out, err := dhall.NewCodec().Render(doc)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestParse_ShortHashIsNotConsumed(t *testing.T) {
	imports := parseImports(t, "./a.dhall sha256:abc")

	require.Len(t, imports, 1)
	assert.False(t, imports[0].IsFrozen())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "unterminated block comment", src: "{- open\n", wantMsg: "unterminated block comment"},
		{name: "unterminated text", src: `let x = "abc`, wantMsg: "unterminated text literal"},
		{name: "unterminated multi-line text", src: "let x = ''\nabc", wantMsg: "unterminated multi-line text literal"},
		{name: "unterminated group", src: "let x = { a = 1", wantMsg: "unterminated {"},
		{name: "mismatched bracket", src: "let x = [ 1 )", wantMsg: "unexpected )"},
		{name: "unterminated interpolation", src: `"${x"`, wantMsg: "unterminated"},
		{name: "unterminated label", src: "let `x = 1", wantMsg: "unterminated quoted label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dhall.NewCodec().Parse("bad.dhall", []byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestParse_UsingHeaders(t *testing.T) {
	hash := "df6486e7fad6dbe724c4e2ee5eac65454843dce1f6e10dc35e0b1a8aa9720b26"
	tests := []struct {
		name        string
		src         string
		wantHeaders string
		wantHash    domain.Hash
		wantImports int
	}{
		{
			name:        "parenthesized expression",
			src:         `https://example.com/private.dhall using (toMap { Authorization = "token" })`,
			wantHeaders: `(toMap { Authorization = "token" })`,
			wantImports: 1,
		},
		{
			name:        "hash after the clause",
			src:         "https://example.com/private.dhall using (./headers.dhall) sha256:" + hash,
			wantHeaders: "(./headers.dhall)",
			wantHash:    domain.Hash(hash),
			wantImports: 1,
		},
		{
			name:        "variable",
			src:         "let h = [] in https://example.com/private.dhall using h ++ [1]",
			wantHeaders: "h",
			wantImports: 1,
		},
		{
			name:        "field access",
			src:         "https://example.com/private.dhall using config.headers",
			wantHeaders: "config.headers",
			wantImports: 1,
		},
		{
			name:        "import binds the hash",
			src:         "https://example.com/private.dhall using ./headers.dhall sha256:" + hash,
			wantHeaders: "./headers.dhall sha256:" + hash,
			wantImports: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imports := parseImports(t, tt.src)

			require.Len(t, imports, tt.wantImports)
			assert.Equal(t, "private.dhall", imports[0].File)
			assert.Equal(t, tt.wantHeaders, imports[0].Headers)
			assert.Equal(t, tt.wantHash, imports[0].Hash)
		})
	}
}

func TestParse_UsingWithoutExpression(t *testing.T) {
	_, err := dhall.NewCodec().Parse("headers.dhall", []byte("https://example.com/private.dhall using"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSyntax)
	assert.ErrorIs(t, err, domain.ErrParse)
}
