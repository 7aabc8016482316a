package collection

import "context"

// Hooks are optional callbacks invoked around every mutation. A nil field
// behaves as a hook that succeeds without doing anything.
//
// Before hooks run ahead of the backend write and abort the operation when
// they fail. After hooks run once the write is committed; their error is
// returned to the caller but the write is not rolled back.
type Hooks struct {
	BeforeInsert func(ctx context.Context, record Record) error
	AfterInsert  func(ctx context.Context, record Record, id int64) error
	BeforeUpdate func(ctx context.Context, id int64, patch Record) error
	AfterUpdate  func(ctx context.Context, id int64, patch Record) error
	BeforeDelete func(ctx context.Context, id int64, record Record) error
	AfterDelete  func(ctx context.Context, id int64, record Record) error
}

// ChainHooks merges several Hooks into one. Every slot calls the members in
// order and stops at the first error.
func ChainHooks(hooks ...Hooks) Hooks {
	return Hooks{
		BeforeInsert: func(ctx context.Context, record Record) error {
			for _, h := range hooks {
				if err := h.beforeInsert(ctx, record); err != nil {
					return err
				}
			}
			return nil
		},
		AfterInsert: func(ctx context.Context, record Record, id int64) error {
			for _, h := range hooks {
				if err := h.afterInsert(ctx, record, id); err != nil {
					return err
				}
			}
			return nil
		},
		BeforeUpdate: func(ctx context.Context, id int64, patch Record) error {
			for _, h := range hooks {
				if err := h.beforeUpdate(ctx, id, patch); err != nil {
					return err
				}
			}
			return nil
		},
		AfterUpdate: func(ctx context.Context, id int64, patch Record) error {
			for _, h := range hooks {
				if err := h.afterUpdate(ctx, id, patch); err != nil {
					return err
				}
			}
			return nil
		},
		BeforeDelete: func(ctx context.Context, id int64, record Record) error {
			for _, h := range hooks {
				if err := h.beforeDelete(ctx, id, record); err != nil {
					return err
				}
			}
			return nil
		},
		AfterDelete: func(ctx context.Context, id int64, record Record) error {
			for _, h := range hooks {
				if err := h.afterDelete(ctx, id, record); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (h Hooks) beforeInsert(ctx context.Context, record Record) error {
	if h.BeforeInsert == nil {
		return nil
	}
	return h.BeforeInsert(ctx, record)
}

func (h Hooks) afterInsert(ctx context.Context, record Record, id int64) error {
	if h.AfterInsert == nil {
		return nil
	}
	return h.AfterInsert(ctx, record, id)
}

func (h Hooks) beforeUpdate(ctx context.Context, id int64, patch Record) error {
	if h.BeforeUpdate == nil {
		return nil
	}
	return h.BeforeUpdate(ctx, id, patch)
}

func (h Hooks) afterUpdate(ctx context.Context, id int64, patch Record) error {
	if h.AfterUpdate == nil {
		return nil
	}
	return h.AfterUpdate(ctx, id, patch)
}

func (h Hooks) beforeDelete(ctx context.Context, id int64, record Record) error {
	if h.BeforeDelete == nil {
		return nil
	}
	return h.BeforeDelete(ctx, id, record)
}

func (h Hooks) afterDelete(ctx context.Context, id int64, record Record) error {
	if h.AfterDelete == nil {
		return nil
	}
	return h.AfterDelete(ctx, id, record)
}
