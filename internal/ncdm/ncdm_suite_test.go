package ncdm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNcdm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ncdm Suite")
}
