package model

import (
	"net/mail"
	"time"
)

// JSONMessageHeaderV1 is one entry of a mailbox listing.
type JSONMessageHeaderV1 struct {
	Mailbox string    `json:"mailbox"`
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      []string  `json:"to"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
	Size    int64     `json:"size"`
	Seen    bool      `json:"seen"`
}

// JSONMessageV1 is a full message as returned by the message endpoint.
type JSONMessageV1 struct {
	Mailbox     string                     `json:"mailbox"`
	ID          string                     `json:"id"`
	From        string                     `json:"from"`
	To          []string                   `json:"to"`
	Subject     string                     `json:"subject"`
	Date        time.Time                  `json:"date"`
	Size        int64                      `json:"size"`
	Seen        bool                       `json:"seen"`
	Body        *JSONMessageBodyV1         `json:"body"`
	Header      mail.Header                `json:"header"`
	Attachments []*JSONMessageAttachmentV1 `json:"attachments"`
}

// JSONMessageAttachmentV1 describes an attachment, content is fetched via the links.
type JSONMessageAttachmentV1 struct {
	FileName     string `json:"filename"`
	ContentType  string `json:"content-type"`
	DownloadLink string `json:"download-link"`
	ViewLink     string `json:"view-link"`
	MD5          string `json:"md5"`
}

// JSONMessageBodyV1 contains the Text and HTML versions of the message body
type JSONMessageBodyV1 struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// TextAndHTML returns the body parts, empty strings when the body is missing.
func (m *JSONMessageV1) TextAndHTML() (text, html string) {
	if m == nil || m.Body == nil {
		return "", ""
	}
	return m.Body.Text, m.Body.HTML
}
