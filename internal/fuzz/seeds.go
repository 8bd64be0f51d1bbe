package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var builtinSeeds = []string{
	"",
	"X:1\nT:t\nK:C\nCDEF GABc|\n",
	"X:1\nK:C\n!trill!C +fermata+z2 Z4 \"Am\"[CEG]2 (3DEF (AB) {ga} A>>B<C D-D [K:G] |]\n",
	"X:1\nK:C\nC \\\nD|:E:|[1F|2G|]\n",
	"X:1\r\nK:C  \r\nCD |  EF\r\n",
	"[C\n(D\n{e\n[F\n(G\n",
	"X:x\nM:0/4\nQ:fast\nL:1/3\nK:Q\n",
	"\"unterminated\n!open\n+half\n",
	"ключ:значение\nC€D",
	"x:0%000",
	"X:1\nK:C\nx:0%c\n",
	"X:1\nT:Title   % note\nK:C\n[K:D ]C\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.abc файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".abc") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
