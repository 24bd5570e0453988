package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sarveshmathanraj02/employee-task-app/internal/model"
	"github.com/sarveshmathanraj02/employee-task-app/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserFinder 按用户名查询用户，用于确认令牌主体仍然存在。
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthMiddleware 校验 Bearer 令牌并确认对应用户仍然存在。
//
// 任一环节失败（缺头、签名无效、过期、用户已消失）都返回统一的 401，
// 成功后将 username 与 userID 写入上下文。
func AuthMiddleware(jwtSecret string, users UserFinder) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		tokenStr := parts[1]
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}
		if claims.Subject == "" {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		// 令牌有效还不够：主体对应的用户必须仍然存在
		user, err := users.FindByUsername(c.Request.Context(), claims.Subject)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query user failed"})
			c.Abort()
			return
		}
		if user == nil {
			abortUnauthorized(c, "invalid authentication credentials")
			return
		}

		c.Set("username", user.Username)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	metrics.AuthFailuresTotal.Inc()
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}
