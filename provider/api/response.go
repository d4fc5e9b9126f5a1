package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) Int() int {
	n, _ := strconv.Atoi(string(f))
	return n
}

func (f flexString) Int64() int64 {
	n, _ := strconv.ParseInt(string(f), 10, 64)
	return n
}

type response struct {
	Code      flexString `json:"code"`
	Page      flexString `json:"page"`
	PageCount flexString `json:"pagecount"`
	List      []item     `json:"list"`
}

type item struct {
	ID       flexString `json:"vod_id"`
	Name     string     `json:"vod_name"`
	Pic      string     `json:"vod_pic"`
	Year     flexString `json:"vod_year"`
	Content  string     `json:"vod_content"`
	TypeName string     `json:"type_name"`
	PlayURL  string     `json:"vod_play_url"`
	DoubanID flexString `json:"vod_douban_id"`
}
