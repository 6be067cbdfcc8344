package model

// Content is the typed body of a message. Exactly one of PlainText, ExchangeProposal
// and ExchangeCompletion is returned by Message.Content.
type Content interface {
	Accept(v ContentVisitor)
	isContent()
}

type ContentVisitor interface {
	VisitPlainText(c PlainText)
	VisitExchangeProposal(c ExchangeProposal)
	VisitExchangeCompletion(c ExchangeCompletion)
}

type PlainText struct {
	Text string
}

type ExchangeProposal struct {
	Note    string
	Request ExchangeRequest
}

type ExchangeCompletion struct {
	Note    string
	Request ExchangeRequest
}

func (c PlainText) Accept(v ContentVisitor)          { v.VisitPlainText(c) }
func (c ExchangeProposal) Accept(v ContentVisitor)   { v.VisitExchangeProposal(c) }
func (c ExchangeCompletion) Accept(v ContentVisitor) { v.VisitExchangeCompletion(c) }

func (PlainText) isContent()          {}
func (ExchangeProposal) isContent()   {}
func (ExchangeCompletion) isContent() {}

// Content maps the message type tag onto its body. Exchange messages without a
// payload degrade to plain text.
func (m Message) Content() Content {
	switch m.Type {
	case ExchangeRequestMessageType:
		if m.ExchangeRequest != nil {
			return ExchangeProposal{Note: m.Text, Request: *m.ExchangeRequest}
		}
	case ExchangeCompletedMessageType:
		if m.ExchangeRequest != nil {
			return ExchangeCompletion{Note: m.Text, Request: *m.ExchangeRequest}
		}
	}
	return PlainText{Text: m.Text}
}

type previewVisitor struct {
	preview string
}

func (p *previewVisitor) VisitPlainText(c PlainText) {
	p.preview = c.Text
}

func (p *previewVisitor) VisitExchangeProposal(c ExchangeProposal) {
	switch c.Request.Status {
	case ExchangeCompleted:
		p.preview = "Exchange completed: " + c.Request.BookTitle
	default:
		p.preview = "Exchange request: " + c.Request.BookTitle
	}
}

func (p *previewVisitor) VisitExchangeCompletion(c ExchangeCompletion) {
	p.preview = "Exchange completed: " + c.Request.BookTitle
}

// Preview renders the one-line thread preview for a message.
func Preview(m Message) string {
	v := &previewVisitor{}
	m.Content().Accept(v)
	return v.preview
}
