package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("不带底层错误", func(t *testing.T) {
		err := NewError(ErrCodeNotFound, "项目不存在")
		assert.Equal(t, "[NOT_FOUND] 项目不存在", err.Error())
	})

	t.Run("带底层错误", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := WrapError(ErrCodeDevfolioAPI, "拉取项目列表失败", cause)

		assert.Contains(t, err.Error(), "DEVFOLIO_API_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestHasCode(t *testing.T) {
	t.Run("直接命中", func(t *testing.T) {
		err := NewError(ErrCodeJudge, "评审失败")
		assert.True(t, HasCode(err, ErrCodeJudge))
		assert.False(t, HasCode(err, ErrCodeNotFound))
	})

	t.Run("顺着错误链找", func(t *testing.T) {
		inner := NewError(ErrCodeModelInvocation, "AI 返回内容为空")
		outer := WrapError(ErrCodeJudge, "评审项目失败", inner)

		assert.True(t, HasCode(outer, ErrCodeJudge))
		assert.True(t, HasCode(outer, ErrCodeModelInvocation))
	})

	t.Run("外层是fmt包装", func(t *testing.T) {
		inner := NewError(ErrCodeDatabase, "write failed")
		wrapped := fmt.Errorf("archive: %w", inner)

		assert.True(t, HasCode(wrapped, ErrCodeDatabase))
	})

	t.Run("普通错误和nil", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), ErrCodeJudge))
		assert.False(t, HasCode(nil, ErrCodeJudge))
	})
}
