// Package extract provides driven.Extractor implementations that turn
// rulebook files into page-numbered text: a PDF extractor built on
// github.com/ledongthuc/pdf and a plain-text extractor for .txt and
// .md files.
package extract
