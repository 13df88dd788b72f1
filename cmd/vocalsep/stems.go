package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var audioExtensions = map[string]bool{
	".wav":  true,
	".flac": true,
	".mp3":  true,
}

func listAudioFiles(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if audioExtensions[strings.ToLower(filepath.Ext(name))] {
			files[name] = true
		}
	}
	return files, nil
}

func newFiles(before, after map[string]bool) []string {
	var produced []string
	for name := range after {
		if !before[name] {
			produced = append(produced, name)
		}
	}
	sort.Strings(produced)
	return produced
}

// pickVocalStem chooses the vocal stem from the files a separation run
// produced. Separators name stems after the source track plus a label such as
// "(Vocals)" or "_instrumental"; any name containing "vocal" wins, otherwise
// the first file is used.
func pickVocalStem(produced []string) string {
	if len(produced) == 0 {
		return ""
	}
	for _, name := range produced {
		if strings.Contains(strings.ToLower(name), "vocal") {
			return name
		}
	}
	return produced[0]
}
