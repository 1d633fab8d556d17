package scope

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-evbus/pkg/interfaces"
	"github.com/dep2p/go-evbus/pkg/types"
)

// Params 作用域模块依赖参数
type Params struct {
	fx.In

	Root *types.Scope `name:"root_scope" optional:"true"`
}

// Result 作用域模块输出结果
type Result struct {
	fx.Out

	Holder   *Holder
	Accessor pkgif.ScopeAccessor
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("scope",
		fx.Provide(ProvideHolder),
	)
}

// ProvideHolder 提供作用域持有者
func ProvideHolder(p Params) Result {
	h := NewHolder(p.Root)
	return Result{Holder: h, Accessor: h}
}
