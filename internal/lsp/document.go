package lsp

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/minic/internal/errors"
	"github.com/tangzhangming/minic/internal/frontend"
)

// Document 表示一个打开的文档
type Document struct {
	URI     protocol.DocumentURI
	Content string
	Version int32

	// 最近一次检查的第一个错误，没有错误时为 nil
	Err *errors.CompileError
}

// Filename 文档对应的本地路径，非 file 协议时返回 URI 本身
func (d *Document) Filename() string {
	if strings.HasPrefix(string(d.URI), uri.FileScheme+"://") {
		return d.URI.Filename()
	}
	return string(d.URI)
}

// check 重新编译文档并记录第一个错误
func (d *Document) check(opts frontend.Options) {
	_, err := frontend.Compile(d.Content, d.Filename(), opts)
	d.Err = errors.FromError(err)
}

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[protocol.DocumentURI]*Document
	mu        sync.RWMutex
	opts      frontend.Options
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(opts frontend.Options) *DocumentManager {
	return &DocumentManager{
		documents: make(map[protocol.DocumentURI]*Document),
		opts:      opts,
	}
}

// Open 打开文档并立即检查
func (dm *DocumentManager) Open(u protocol.DocumentURI, content string, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{URI: u, Content: content, Version: version}
	doc.check(dm.opts)
	dm.documents[u] = doc
	return doc
}

// Update 用完整内容替换文档并重新检查
//
// 文档未打开时按打开处理。
func (dm *DocumentManager) Update(u protocol.DocumentURI, content string, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[u]
	if !ok {
		doc = &Document{URI: u}
		dm.documents[u] = doc
	}
	doc.Content = content
	doc.Version = version
	doc.check(dm.opts)
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(u protocol.DocumentURI) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, u)
}

// Get 获取文档
func (dm *DocumentManager) Get(u protocol.DocumentURI) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[u]
}

// Len 打开的文档数
func (dm *DocumentManager) Len() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}
