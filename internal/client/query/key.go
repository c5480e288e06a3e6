package query

import "strings"

const paramSep = "\x1f"

// Key identifies a cacheable data stream: a resource kind plus filter
// parameters. Keys are comparable and can be used as map keys.
type Key struct {
	Kind   string
	Params string
}

func NewKey(kind string, params ...string) Key {
	return Key{Kind: kind, Params: strings.Join(params, paramSep)}
}

// ParamList splits Params back into the values given to NewKey.
func (k Key) ParamList() []string {
	if k.Params == "" {
		return nil
	}
	return strings.Split(k.Params, paramSep)
}

func (k Key) String() string {
	if k.Params == "" {
		return "(" + k.Kind + ")"
	}
	return "(" + k.Kind + ", " + strings.Join(k.ParamList(), ", ") + ")"
}

// id is the unambiguous form used for request coalescing.
func (k Key) id() string {
	return k.Kind + paramSep + paramSep + k.Params
}

const (
	KindHoagies    = "hoagies"
	KindHoagie     = "hoagie"
	KindComments   = "comments"
	KindUserSearch = "users"
)

func HoagiesKey() Key {
	return NewKey(KindHoagies)
}

func HoagieKey(id string) Key {
	return NewKey(KindHoagie, id)
}

func CommentsKey(hoagieID string) Key {
	return NewKey(KindComments, hoagieID)
}

func UserSearchKey(q string) Key {
	return NewKey(KindUserSearch, "search", q)
}
