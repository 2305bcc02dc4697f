// internal/output/xml.go
package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/valpere/SubScrapexter/internal/scraper"
)

// XMLWriter writes channels under a youtube_channels root element
type XMLWriter struct {
	filename string
	file     *atomicFile
	options  WriterOptions
}

type xmlDocument struct {
	XMLName  xml.Name     `xml:"youtube_channels"`
	Metadata Metadata     `xml:"metadata"`
	Channels []xmlChannel `xml:"channels>channel"`
}

// xmlChannel uses lower-cased field names as element names
type xmlChannel struct {
	ChannelName        string `xml:"channelname"`
	ChannelLink        string `xml:"channellink"`
	ChannelImage       string `xml:"channelimage"`
	SubscriberCount    string `xml:"subscribercount"`
	SubsCountRaw       string `xml:"subscountraw"`
	ChannelDescription string `xml:"channeldescription"`
}

// NewXMLWriter creates a new XML writer
func NewXMLWriter(filename string, options WriterOptions) (*XMLWriter, error) {
	file, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}

	return &XMLWriter{
		filename: filename,
		file:     file,
		options:  options,
	}, nil
}

// Write writes the XML declaration and the export document
func (w *XMLWriter) Write(records []scraper.ChannelRecord) error {
	doc := xmlDocument{
		Metadata: w.options.metadata(records),
		Channels: make([]xmlChannel, 0, len(records)),
	}
	for _, r := range records {
		doc.Channels = append(doc.Channels, xmlChannel{
			ChannelName:        r.Name,
			ChannelLink:        r.Link,
			ChannelImage:       r.ImageURL,
			SubscriberCount:    r.SubscriberCount,
			SubsCountRaw:       r.SubscriberCountRaw,
			ChannelDescription: r.Description,
		})
	}

	return w.file.fail(encodeXML(w.file, doc))
}

func encodeXML(out io.Writer, doc xmlDocument) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	encoder := xml.NewEncoder(out)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

// Close commits the XML file
func (w *XMLWriter) Close() error {
	return w.file.Close()
}
