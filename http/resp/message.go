package resp

import "net/http"

// An Emittable is a finalized response that can be committed to a connection.
type Emittable interface {
	Message() Message
}

var (
	_ Emittable = Message{}
	_ Emittable = Response{}
)

// A Message is a plain, immutable HTTP response message:
// status, headers, cookies and body.
//
// Every With method returns a new Message and leaves the receiver as it was.
// The zero value is a 200 OK with no headers, cookies or body.
type Message struct {
	status  int
	reason  string
	header  Header
	cookies []*http.Cookie
	body    Body
}

// Message returns m itself, making every Message an Emittable.
func (m Message) Message() Message { return m }

// StatusCode returns the response status code.
func (m Message) StatusCode() int {
	if m.status == 0 {
		return http.StatusOK
	}

	return m.status
}

// ReasonPhrase returns the reason set with WithStatus,
// falling back to the standard text for the status code.
func (m Message) ReasonPhrase() string {
	if m.reason != "" {
		return m.reason
	}

	return http.StatusText(m.StatusCode())
}

// Header returns the Message's headers.
func (m Message) Header() Header { return m.header }

// HeaderLine returns the values of name joined by a comma.
func (m Message) HeaderLine(name string) string { return m.header.Line(name) }

// Cookies returns copies of the cookies in the order they were first added.
func (m Message) Cookies() []*http.Cookie {
	cookies := make([]*http.Cookie, len(m.cookies))
	for i, c := range m.cookies {
		cookies[i] = cloneCookie(c)
	}

	return cookies
}

// Cookie returns a copy of the cookie named name or nil.
func (m Message) Cookie(name string) *http.Cookie {
	for _, c := range m.cookies {
		if c.Name == name {
			return cloneCookie(c)
		}
	}

	return nil
}

// Body returns the Message's body.
func (m Message) Body() Body { return m.body }

// WithStatus returns a copy of m with the status code replaced.
// Without a reason, the standard text for code is used.
//
// A non-positive code returns m unchanged.
func (m Message) WithStatus(code int, reason ...string) Message {
	if code <= 0 {
		return m
	}

	m.status = code
	m.reason = ""
	if len(reason) > 0 {
		m.reason = reason[0]
	}

	return m
}

// WithHeader returns a copy of m with the values of name replaced by value.
func (m Message) WithHeader(name, value string) Message {
	m.header = m.header.set(name, value)
	return m
}

// WithAddedHeader returns a copy of m with value appended to the values of name.
func (m Message) WithAddedHeader(name, value string) Message {
	m.header = m.header.add(name, value)
	return m
}

// WithoutHeader returns a copy of m without name.
func (m Message) WithoutHeader(name string) Message {
	m.header = m.header.del(name)
	return m
}

// WithCookie returns a copy of m with c added,
// replacing any cookie already set with the same name.
//
// A nil cookie returns m unchanged.
func (m Message) WithCookie(c *http.Cookie) Message {
	if c == nil {
		return m
	}

	cookies := make([]*http.Cookie, 0, len(m.cookies)+1)
	replaced := false
	for _, existing := range m.cookies {
		if existing.Name == c.Name {
			cookies = append(cookies, cloneCookie(c))
			replaced = true
			continue
		}

		cookies = append(cookies, existing)
	}

	if !replaced {
		cookies = append(cookies, cloneCookie(c))
	}

	m.cookies = cookies
	return m
}

// WithBody returns a copy of m with the body replaced.
func (m Message) WithBody(b Body) Message {
	m.body = b
	return m
}

func cloneCookie(c *http.Cookie) *http.Cookie {
	clone := *c
	clone.Unparsed = append([]string(nil), c.Unparsed...)
	return &clone
}
