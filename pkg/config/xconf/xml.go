package xconf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf/v2"
)

// xmlParser 把 XML 文档解析为嵌套 map，交由 koanf 按分隔符展平。
//
// 规则：
//   - 根元素名是路径的第一段
//   - 含子元素的元素成为下一层 map，其中的文本被忽略
//   - 叶子元素的文本（去除首尾空白）作为值
//   - 同名兄弟元素后者覆盖前者
//   - 属性、注释、处理指令忽略
type xmlParser struct{}

// XMLParser 返回 koanf.Parser 的 XML 实现。
func XMLParser() koanf.Parser {
	return &xmlParser{}
}

type xmlNode struct {
	name     string
	children map[string]any
	text     strings.Builder
}

// Unmarshal 解析 XML 字节数据。
func (p *xmlParser) Unmarshal(b []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(b))

	var (
		stack []*xmlNode
		root  map[string]any
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("xconf: multiple root elements, found <%s>", t.Name.Local)
			}
			stack = append(stack, &xmlNode{name: t.Name.Local})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			var value any
			if n.children != nil {
				value = n.children
			} else {
				value = strings.TrimSpace(n.text.String())
			}

			if len(stack) == 0 {
				root = map[string]any{n.name: value}
				continue
			}
			parent := stack[len(stack)-1]
			if parent.children == nil {
				parent.children = make(map[string]any)
			}
			parent.children[n.name] = value
		}
	}

	if root == nil {
		return nil, errors.New("xconf: xml document has no root element")
	}
	return root, nil
}

// Marshal 不支持。
func (p *xmlParser) Marshal(map[string]any) ([]byte, error) {
	return nil, ErrMarshalUnsupported
}
