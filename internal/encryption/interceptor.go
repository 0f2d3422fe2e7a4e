package encryption

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

// FieldConfig maps a model name to the fields that must be stored encrypted.
type FieldConfig map[string][]string

// FieldCipher is the part of Service the interceptor needs.
type FieldCipher interface {
	Encrypt(ctx context.Context, plaintext string, fc FieldContext) (string, error)
	Decrypt(ctx context.Context, token string, fc FieldContext) (string, error)
	IsEncrypted(value string) bool
}

// FieldInterceptor applies encrypt-before-write and decrypt-after-read to the
// configured fields of a model. Repositories call it around their queries.
type FieldInterceptor struct {
	cipher FieldCipher
	fields map[string][]string
}

// NewFieldInterceptor resolves cfg once; later changes to cfg have no effect.
func NewFieldInterceptor(cipher FieldCipher, cfg FieldConfig) *FieldInterceptor {
	fields := make(map[string][]string, len(cfg))
	for model, names := range cfg {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		unique := make([]string, 0, len(set))
		for n := range set {
			unique = append(unique, n)
		}
		sort.Strings(unique)
		fields[model] = unique
	}
	return &FieldInterceptor{cipher: cipher, fields: fields}
}

// ProtectedFields returns the configured fields for model, sorted.
func (i *FieldInterceptor) ProtectedFields(model string) []string {
	return append([]string(nil), i.fields[model]...)
}

// BeforeWrite encrypts every configured field present in data. Nil values,
// including nil string pointers, are left alone, tokens are not re-encrypted and non-string values are
// stringified first.
func (i *FieldInterceptor) BeforeWrite(ctx context.Context, model string, data map[string]any) error {
	for _, field := range i.fields[model] {
		value, ok := data[field]
		if !ok || isNil(value) {
			continue
		}
		plaintext, err := stringify(value)
		if err != nil {
			return fmt.Errorf("field %s of %s: %w", field, model, err)
		}
		if i.cipher.IsEncrypted(plaintext) {
			data[field] = plaintext
			continue
		}
		token, err := i.cipher.Encrypt(ctx, plaintext, FieldContext{Model: model, Field: field})
		if err != nil {
			return err
		}
		data[field] = token
	}
	return nil
}

// AfterRead decrypts every configured field of data that currently holds a
// token. Running it twice is harmless.
func (i *FieldInterceptor) AfterRead(ctx context.Context, model string, data map[string]any) error {
	for _, field := range i.fields[model] {
		token, ok := data[field].(string)
		if !ok || !i.cipher.IsEncrypted(token) {
			continue
		}
		plaintext, err := i.cipher.Decrypt(ctx, token, FieldContext{Model: model, Field: field})
		if err != nil {
			return err
		}
		data[field] = plaintext
	}
	return nil
}

// AfterReadMany applies AfterRead to every row.
func (i *FieldInterceptor) AfterReadMany(ctx context.Context, model string, rows []map[string]any) error {
	for _, row := range rows {
		if err := i.AfterRead(ctx, model, row); err != nil {
			return err
		}
	}
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	p, ok := value.(*string)
	return ok && p == nil
}

func stringify(value any) (string, error) {
	if v, ok := value.(*string); ok {
		return *v, nil
	}
	return cast.ToStringE(value)
}
