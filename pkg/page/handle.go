package page

import (
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/fondantshop/pkg/checkout"
	"github.com/example/fondantshop/pkg/models"
)

const defaultRequestTimeout = 5 * time.Second

// Handle is the caller's side of a running page.
type Handle struct {
	system  *actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

// Spawn starts a page actor on system.
func Spawn(system *actor.ActorSystem, cfg Config) (*Handle, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	props := actor.PropsFromProducer(func() actor.Actor {
		return newPage(cfg)
	})
	pid := system.Root.Spawn(props)
	return &Handle{system: system, pid: pid, timeout: defaultRequestTimeout}, nil
}

func (h *Handle) PID() *actor.PID { return h.pid }

func (h *Handle) request(msg interface{}) (interface{}, error) {
	result, err := h.system.Root.RequestFuture(h.pid, msg, h.timeout).Result()
	if err != nil {
		return nil, fmt.Errorf("page request %T: %w", msg, err)
	}
	return result, nil
}

func (h *Handle) cartRequest(msg interface{}) (*CartResult, error) {
	result, err := h.request(msg)
	if err != nil {
		return nil, err
	}
	res, ok := result.(*CartResult)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T", result)
	}
	return res, res.Err
}

// AddToCart returns the number of distinct cart lines.
func (h *Handle) AddToCart(productID, name string, price models.Price, image string, quantity int) (int, error) {
	res, err := h.cartRequest(&AddToCart{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Image:     image,
		Quantity:  quantity,
	})
	if err != nil {
		return 0, err
	}
	return res.Lines, nil
}

func (h *Handle) RemoveFromCart(productID string) (int, error) {
	res, err := h.cartRequest(&RemoveFromCart{ProductID: productID})
	if err != nil {
		return 0, err
	}
	return res.Lines, nil
}

func (h *Handle) UpdateQuantity(productID string, quantity int) (int, error) {
	res, err := h.cartRequest(&UpdateQuantity{ProductID: productID, Quantity: quantity})
	if err != nil {
		return 0, err
	}
	return res.Lines, nil
}

func (h *Handle) ClearCart() error {
	_, err := h.cartRequest(&ClearCart{})
	return err
}

func (h *Handle) Checkout(name, price string) error {
	_, err := h.request(&Checkout{Request: checkout.Request{Name: name, Price: price}})
	return err
}

func (h *Handle) CompleteOrder(draft models.OrderDraft) (models.Order, error) {
	result, err := h.request(&CompleteOrder{Draft: draft})
	if err != nil {
		return models.Order{}, err
	}
	res, ok := result.(*OrderResult)
	if !ok {
		return models.Order{}, fmt.Errorf("unexpected reply %T", result)
	}
	return res.Order, res.Err
}

func (h *Handle) ShowOrders() (bool, error) {
	result, err := h.request(&ShowOrders{})
	if err != nil {
		return false, err
	}
	res, ok := result.(*RenderResult)
	if !ok {
		return false, fmt.Errorf("unexpected reply %T", result)
	}
	return res.Rendered, res.Err
}

// Click reports whether a click handler ran.
func (h *Handle) Click(selector string) (bool, error) {
	result, err := h.request(&Click{Selector: selector})
	if err != nil {
		return false, err
	}
	res, ok := result.(*ClickResult)
	if !ok {
		return false, fmt.Errorf("unexpected reply %T", result)
	}
	return res.Handled, nil
}

// Snapshot waits for every message sent before it to be handled.
func (h *Handle) Snapshot() (*State, error) {
	result, err := h.request(&Snapshot{})
	if err != nil {
		return nil, err
	}
	state, ok := result.(*State)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T", result)
	}
	return state, nil
}

// Stop stops the page and waits for it to finish.
func (h *Handle) Stop() error {
	return h.system.Root.StopFuture(h.pid).Wait()
}
