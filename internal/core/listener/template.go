package listener

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ============================================================================
//                              Template
// ============================================================================

// Template 监听器类型的适配模板
//
// 每个监听器类型一份，创建后不可变，被该类型的所有 Adapter 共享。
type Template struct {
	typ     reflect.Type
	methods []HandlerMethod
	entries []entry
}

// entry 入口点描述
type entry struct {
	eventType    reflect.Type
	returnsError bool
}

// Synthesize 为监听器类型创建适配模板
//
// methods 必须非空。签名不合法时返回包装了 ErrMalformedHandler 的错误，
// 调用方不会缓存失败结果。
func Synthesize(t reflect.Type, methods []HandlerMethod) (*Template, error) {
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, ErrInvalidListener
	}
	if len(methods) == 0 {
		return nil, ErrNoHandlers
	}

	entries := make([]entry, len(methods))
	for i, h := range methods {
		mt := h.Method.Type
		switch {
		case mt == nil || mt.NumIn() != 2:
			return nil, fmt.Errorf("%w: %s.%s must take exactly one parameter", ErrMalformedHandler, t, h.Method.Name)
		case mt.In(0) != t:
			return nil, fmt.Errorf("%w: %s.%s belongs to %s", ErrMalformedHandler, t, h.Method.Name, mt.In(0))
		case mt.IsVariadic():
			return nil, fmt.Errorf("%w: %s.%s is variadic", ErrMalformedHandler, t, h.Method.Name)
		case mt.NumOut() > 1 || (mt.NumOut() == 1 && mt.Out(0) != errorType):
			return nil, fmt.Errorf("%w: %s.%s must return nothing or error", ErrMalformedHandler, t, h.Method.Name)
		}
		entries[i] = entry{
			eventType:    mt.In(1),
			returnsError: mt.NumOut() == 1,
		}
	}

	return &Template{typ: t, methods: methods, entries: entries}, nil
}

// Type 返回监听器类型
func (t *Template) Type() reflect.Type {
	return t.typ
}

// Methods 返回处理方法列表
//
// 返回的切片与所有同类型 Adapter 共享，调用方不得修改。
func (t *Template) Methods() []HandlerMethod {
	return t.methods
}

// Len 返回入口点数量
func (t *Template) Len() int {
	return len(t.entries)
}

// EventTypes 返回每个入口点接收的事件类型
func (t *Template) EventTypes() []reflect.Type {
	out := make([]reflect.Type, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.eventType
	}
	return out
}
