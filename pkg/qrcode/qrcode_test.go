/*
Copyright 2024 The Walletkit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package qrcode

import (
	"reflect"
	"testing"
)

func TestGenerate(t *testing.T) {
	im, err := Generate("https://wallet.example/pay/0xdeadbeef", Options{MinSize: 300})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b := im.Bounds()
	if b.Dx() < 300 || b.Dy() < 300 {
		t.Errorf("image is %dx%d; want at least 300x300", b.Dx(), b.Dy())
	}
	if b.Dx() != b.Dy() {
		t.Errorf("image is %dx%d; want square", b.Dx(), b.Dy())
	}
}

func TestTagsStable(t *testing.T) {
	a := Options{Level: H, MinSize: 512}.Tags()
	b := Options{Level: H, MinSize: 512}.Tags()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("tags not deterministic: %v vs %v", a, b)
	}
	if !sorted(a) {
		t.Errorf("tags not sorted: %v", a)
	}
}

func sorted(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i] < ss[i-1] {
			return false
		}
	}
	return true
}
