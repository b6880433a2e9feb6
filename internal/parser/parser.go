package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"restaurant-chatbot/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// Options controls chunk granularity. The document path and the structured
// dataset path intentionally use different sizes and must not be conflated.
type Options struct {
	ChunkSize    int // characters
	ChunkOverlap int // characters
}

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

func (o Options) normalized() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.ChunkOverlap < 0 {
		o.ChunkOverlap = 0
	}
	if o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = o.ChunkSize / 2
	}
	return o
}

// LoadFile parses one source document into chunks. The source on each chunk
// is the file's base name.
func LoadFile(filePath string, opts Options) ([]models.Chunk, error) {
	opts = opts.normalized()
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath, opts)
	case ".docx":
		return parseDOCX(filePath, opts)
	case ".pptx":
		return parsePPTX(filePath, opts)
	case ".xlsx":
		return parseXLSX(filePath, opts)
	case ".ods":
		return parseODS(filePath, opts)
	case ".txt", ".md":
		return parseText(filePath, opts)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

// LoadDir parses every supported document under dir. A file that is
// unreadable or yields no text is skipped with a diagnostic; ingestion
// continues with the remaining sources.
func LoadDir(dir string, opts Options) ([]models.Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus dir %s: %w", dir, err)
	}
	var chunks []models.Chunk
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fileChunks, err := LoadFile(path, opts)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping unreadable document")
			continue
		}
		if len(fileChunks) == 0 {
			log.Warn().Str("file", entry.Name()).Msg("Skipping document with no extractable text")
			continue
		}
		log.Info().Str("file", entry.Name()).Int("chunks", len(fileChunks)).Msg("Parsed document")
		chunks = append(chunks, fileChunks...)
	}
	return chunks, nil
}

func parsePDF(filePath string, opts Options) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	source := filepath.Base(filePath)
	var chunks []models.Chunk
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Str("file", source).Int("page", i).Msg("Skipping unreadable page")
			continue
		}
		chunks = append(chunks, buildChunks(pageText, source, i, opts)...)
	}
	return chunks, nil
}

func parseDOCX(filePath string, opts Options) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := r.Editable()
	source := filepath.Base(filePath)
	var chunks []models.Chunk
	for _, paragraph := range strings.Split(doc.GetContent(), "\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		// DOCX carries no page numbers
		chunks = append(chunks, buildChunks(paragraph, source, 1, opts)...)
	}
	return chunks, nil
}

func parsePPTX(filePath string, opts Options) ([]models.Chunk, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	source := filepath.Base(filePath)
	var chunks []models.Chunk
	slideNum := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		slideNum++
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideText := extractTextFromXML(string(data))
		chunks = append(chunks, buildChunks(slideText, source, slideNum, opts)...)
	}
	return chunks, nil
}

func parseXLSX(filePath string, opts Options) ([]models.Chunk, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(filePath)
	var chunks []models.Chunk
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		chunks = append(chunks, buildChunks(text.String(), source, sheetNum+1, opts)...)
	}
	return chunks, nil
}

func parseODS(filePath string, opts Options) ([]models.Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	source := filepath.Base(filePath)
	var chunks []models.Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		chunks = append(chunks, buildChunks(text.String(), source, sheetNum+1, opts)...)
	}
	return chunks, nil
}

func parseText(filePath string, opts Options) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return buildChunks(string(data), filepath.Base(filePath), 1, opts), nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}

// chunkContent splits content into chunks of at most maxChars characters with
// overlapChars of overlap. Deterministic: the same input always yields the
// same chunk sequence. Content shorter than maxChars is returned unmodified
// as a single chunk.
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		// Prefer a clean break within the last 10% of the chunk, falling
		// back to a hard cut.
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		start += maxChars - overlapChars
		if start >= contentLen {
			break
		}
	}

	return chunks
}

// buildChunks chunks one text unit and tags each chunk with its provenance.
// Chunk IDs restart at 1 per unit; their order is preserved for citation
// display only.
func buildChunks(content, source string, pageNumber int, opts Options) []models.Chunk {
	var chunks []models.Chunk
	for i, text := range chunkContent(content, opts.ChunkSize, opts.ChunkOverlap) {
		chunks = append(chunks, models.Chunk{
			Content:    text,
			Source:     source,
			PageNumber: pageNumber,
			ChunkID:    i + 1,
		})
	}
	return chunks
}
