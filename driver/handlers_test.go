package driver

import (
	"context"
	"database/sql"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/sqldom/sqlerr"
)

type auditHandler struct {
	events []string
}

func (h *auditHandler) ConnectionOpening(context.Context, *ConnectionInfo) error {
	h.events = append(h.events, "opening")
	return nil
}

func (h *auditHandler) ConnectionOpened(context.Context, *sql.DB) error {
	h.events = append(h.events, "opened")
	return nil
}

// valueHandler implements ConnectionHandler on the value type, which
// cannot be instantiated as a fresh pointer.
type valueHandler struct{}

func (valueHandler) ConnectionOpening(context.Context, *ConnectionInfo) error { return nil }
func (valueHandler) ConnectionOpened(context.Context, *sql.DB) error { return nil }

func TestCreateConnectionHandlers(t *testing.T) {
	t.Parallel()
	typ := HandlerType[*auditHandler]()
	handlers, err := CreateConnectionHandlers([]reflect.Type{typ, typ})
	require.NoError(t, err)
	require.Len(t, handlers, 2)
	assert.IsType(t, &auditHandler{}, handlers[0])
	assert.NotSame(t, handlers[0], handlers[1])
}

func TestCreateConnectionHandlersRejectsUnusableTypes(t *testing.T) {
	t.Parallel()
	for _, typ := range []reflect.Type{
		reflect.TypeFor[valueHandler](),
		reflect.TypeFor[*int](),
		reflect.TypeFor[string](),
	} {
		_, err := CreateConnectionHandlers([]reflect.Type{typ})
		assert.ErrorIs(t, err, sqlerr.ErrNotSupported, typ.String())
	}
}

func TestNewStorageDriverValidatesHandlers(t *testing.T) {
	t.Parallel()
	cfg := Config{ConnectionHandlers: []reflect.Type{reflect.TypeFor[valueHandler]()}}
	_, err := NewStorageDriver(newStandardDriver("test", nil), cfg)
	assert.ErrorIs(t, err, sqlerr.ErrNotSupported)
}

func TestFactoryIsBuiltOnce(t *testing.T) {
	t.Parallel()
	typ := HandlerType[*auditHandler]()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := factoryFor(typ)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	_, ok := handlerFactories.Load(typ)
	assert.True(t, ok)
}

func TestHandlersObserveOpen(t *testing.T) {
	t.Parallel()
	handlers, err := CreateConnectionHandlers([]reflect.Type{HandlerType[*auditHandler]()})
	require.NoError(t, err)
	conn := newConnection("sqlite", &Config{DSN: ":memory:"}, handlers)
	require.NoError(t, conn.Open(context.Background()))
	t.Cleanup(func() { _ = conn.Close() })
	assert.Equal(t, []string{"opening", "opened"}, handlers[0].(*auditHandler).events)
}

func TestSameNamedHandlerTypesGetTheirOwnFactories(t *testing.T) {
	t.Parallel()
	first := func() reflect.Type {
		type handler struct{ auditHandler }
		return HandlerType[*handler]()
	}()
	second := func() reflect.Type {
		type handler struct {
			auditHandler
			tag string
		}
		return HandlerType[*handler]()
	}()
	require.Equal(t, first.String(), second.String())
	assert.NotEqual(t, typeKey(first), typeKey(second))

	var wg sync.WaitGroup
	for range 8 {
		for _, typ := range []reflect.Type{first, second} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f, err := factoryFor(typ)
				if assert.NoError(t, err) {
					assert.Equal(t, typ, reflect.TypeOf(f()))
				}
			}()
		}
	}
	wg.Wait()
}

func TestNilHandlerType(t *testing.T) {
	t.Parallel()
	_, err := CreateConnectionHandlers([]reflect.Type{nil})
	assert.ErrorIs(t, err, sqlerr.ErrInvalidArgument)
}
